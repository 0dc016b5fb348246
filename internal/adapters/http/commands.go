package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleListCommands(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListCommands(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiCreateCommandRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Enabled         *bool    `json:"enabled"`
	CooldownSeconds int      `json:"cooldown_seconds"`
	Permissions     []string `json:"permissions"`
}

func (h *Handler) handleCreateCommand(w http.ResponseWriter, r *http.Request) {
	var req apiCreateCommandRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	v, err := h.service.CreateCommand(r.Context(), domain.CommandDefinition{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Enabled:         enabled,
		CooldownSeconds: req.CooldownSeconds,
		Permissions:     req.Permissions,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handler) handleListEffectiveCommands(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEffectiveCommands(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetEffectiveCommand(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetEffectiveCommand(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// apiOverrideRequest leaves a field out (or null) to inherit the global value.
type apiOverrideRequest struct {
	Enabled         *bool     `json:"enabled"`
	CooldownSeconds *int      `json:"cooldown_seconds"`
	Permissions     *[]string `json:"permissions"`
}

func (h *Handler) handleSetCommandOverride(w http.ResponseWriter, r *http.Request) {
	var req apiOverrideRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.SetCommandOverride(r.Context(), domain.GuildCommandOverride{
		GuildID:         chi.URLParam(r, "guildID"),
		CommandName:     chi.URLParam(r, "name"),
		Enabled:         req.Enabled,
		CooldownSeconds: req.CooldownSeconds,
		Permissions:     req.Permissions,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleClearCommandOverride(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.ClearCommandOverride(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleMarkCommandsSynced(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.MarkCommandsSynced(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}
