package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleListPunishments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	active, err := queryBool(r, "active")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.ListPunishments(r.Context(), domain.PunishmentFilter{
		GuildID:    chi.URLParam(r, "guildID"),
		UserID:     r.URL.Query().Get("user_id"),
		ActiveOnly: active,
		Limit:      limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiRecordPunishmentRequest struct {
	UserID            string         `json:"user_id"`
	ModeratorID       string         `json:"moderator_id"`
	Action            string         `json:"action"`
	Reason            string         `json:"reason"`
	ExpiresAt         *time.Time     `json:"expires_at"`
	DurationSeconds   int64          `json:"duration_seconds"`
	Enforce           bool           `json:"enforce"`
	DeleteMessageDays int            `json:"delete_message_days"`
	XPPenalty         int64          `json:"xp_penalty"`
	Details           map[string]any `json:"details"`
}

func (h *Handler) handleRecordPunishment(w http.ResponseWriter, r *http.Request) {
	var req apiRecordPunishmentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	action, ok := domain.ParseActionKind(req.Action)
	if !ok {
		h.writeError(w, r, domain.Invalid("action"))
		return
	}
	res, err := h.service.RecordPunishment(r.Context(), application.RecordPunishmentInput{
		GuildID:           chi.URLParam(r, "guildID"),
		UserID:            req.UserID,
		ModeratorID:       req.ModeratorID,
		Action:            action,
		Reason:            req.Reason,
		ExpiresAt:         req.ExpiresAt,
		Duration:          time.Duration(req.DurationSeconds) * time.Second,
		Enforce:           req.Enforce,
		DeleteMessageDays: req.DeleteMessageDays,
		XPPenalty:         req.XPPenalty,
		Details:           req.Details,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body := map[string]any{"success": true, "data": res}
	if len(res.Warnings) > 0 {
		body["warnings"] = res.Warnings
	}
	writeJSON(w, http.StatusCreated, body)
}

func (h *Handler) handleGetPunishment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.GetPunishment(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type apiRevokeRequest struct {
	RevokedBy string `json:"revoked_by"`
}

func (h *Handler) handleRevokePunishment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req apiRevokeRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	v, err := h.service.RevokePunishment(r.Context(), id, req.RevokedBy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleListModerationLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.ListModerationLogs(r.Context(), domain.ModerationLogFilter{
		GuildID: chi.URLParam(r, "guildID"),
		UserID:  r.URL.Query().Get("user_id"),
		Action:  domain.ActionKind(r.URL.Query().Get("action")),
		Limit:   limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiModerationLogRequest struct {
	UserID      string         `json:"user_id"`
	ModeratorID string         `json:"moderator_id"`
	Action      string         `json:"action"`
	Reason      string         `json:"reason"`
	Details     map[string]any `json:"details"`
}

func (h *Handler) handleCreateModerationLog(w http.ResponseWriter, r *http.Request) {
	var req apiModerationLogRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.RecordModerationLog(r.Context(), domain.ModerationLog{
		GuildID:     chi.URLParam(r, "guildID"),
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		Action:      domain.ActionKind(req.Action),
		Reason:      req.Reason,
		Details:     req.Details,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handler) handleModerationStats(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.ModerationStats(r.Context(), chi.URLParam(r, "guildID"), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
