package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleListGuilds(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.ListGuilds(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiGuildRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	OwnerID     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
}

func (h *Handler) handleSaveGuild(w http.ResponseWriter, r *http.Request) {
	var req apiGuildRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.SaveGuild(r.Context(), domain.Guild{
		ID:          req.ID,
		Name:        req.Name,
		Icon:        req.Icon,
		OwnerID:     req.OwnerID,
		MemberCount: req.MemberCount,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleGetGuild(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetGuild(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListRoles(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiCustomRoleRequest struct {
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
}

func (h *Handler) handleCreateCustomRole(w http.ResponseWriter, r *http.Request) {
	var req apiCustomRoleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateCustomRole(r.Context(), domain.Role{
		GuildID:     chi.URLParam(r, "guildID"),
		Name:        req.Name,
		Color:       req.Color,
		Position:    req.Position,
		Permissions: req.Permissions,
		Hoist:       req.Hoist,
		Mentionable: req.Mentionable,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

// handleSyncGuildRoles pulls the role list from Discord and replaces the stored copy.
func (h *Handler) handleSyncGuildRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.SyncGuildRoles(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, items)
}
