package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.ListAnnouncements(r.Context(), chi.URLParam(r, "guildID"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiAnnouncementRequest struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Color     int    `json:"color"`
	AuthorID  string `json:"author_id"`
	Send      bool   `json:"send"`
}

func (h *Handler) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req apiAnnouncementRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateAnnouncement(r.Context(), domain.Announcement{
		GuildID:   chi.URLParam(r, "guildID"),
		ChannelID: req.ChannelID,
		Title:     req.Title,
		Content:   req.Content,
		Color:     req.Color,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !req.Send {
		writeData(w, http.StatusCreated, v)
		return
	}
	sent, err := h.service.SendAnnouncement(r.Context(), v.ID)
	if err != nil {
		// The draft is stored; report the delivery failure next to it.
		h.log.Warn("announcement send failed", "id", v.ID, "err", err)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": v, "warnings": []string{"send failed: " + err.Error()}})
		return
	}
	writeData(w, http.StatusCreated, sent)
}

func (h *Handler) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteAnnouncement(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id})
}

func (h *Handler) handleSendAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.SendAnnouncement(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleListGiveaways(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := domain.GiveawayStatus(r.URL.Query().Get("status"))
	items, err := h.service.ListGiveaways(r.Context(), chi.URLParam(r, "guildID"), status, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiGiveawayRequest struct {
	ChannelID   string    `json:"channel_id"`
	Prize       string    `json:"prize"`
	WinnerCount int       `json:"winner_count"`
	HostID      string    `json:"host_id"`
	EndsAt      time.Time `json:"ends_at"`
}

func (h *Handler) handleCreateGiveaway(w http.ResponseWriter, r *http.Request) {
	var req apiGiveawayRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	winners := req.WinnerCount
	if winners == 0 {
		winners = 1
	}
	v, err := h.service.CreateGiveaway(r.Context(), domain.Giveaway{
		GuildID:     chi.URLParam(r, "guildID"),
		ChannelID:   req.ChannelID,
		Prize:       req.Prize,
		WinnerCount: winners,
		HostID:      req.HostID,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handler) handleGetGiveaway(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetGiveaway(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type apiEntryRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) handleEnterGiveaway(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req apiEntryRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.EnterGiveaway(r.Context(), id, req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleDrawGiveaway(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.DrawGiveaway(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleCancelGiveaway(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CancelGiveaway(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleListReactionRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListReactionRoles(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiReactionRoleRequest struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
	RoleID    string `json:"role_id"`
}

func (h *Handler) handleCreateReactionRole(w http.ResponseWriter, r *http.Request) {
	var req apiReactionRoleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateReactionRole(r.Context(), domain.ReactionRole{
		GuildID:   chi.URLParam(r, "guildID"),
		ChannelID: req.ChannelID,
		MessageID: req.MessageID,
		Emoji:     req.Emoji,
		RoleID:    req.RoleID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handler) handleDeleteReactionRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteReactionRole(r.Context(), chi.URLParam(r, "guildID"), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id})
}
