package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleGetBotStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetBotStatus(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type apiBotStatusRequest struct {
	Status       string `json:"status"`
	ActivityType string `json:"activity_type"`
	ActivityText string `json:"activity_text"`
	Maintenance  bool   `json:"maintenance"`
	UpdatedBy    string `json:"updated_by"`
}

func (h *Handler) handleSaveBotStatus(w http.ResponseWriter, r *http.Request) {
	var req apiBotStatusRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.SaveBotStatus(r.Context(), domain.BotStatus{
		Status:       req.Status,
		ActivityType: req.ActivityType,
		ActivityText: req.ActivityText,
		Maintenance:  req.Maintenance,
		UpdatedBy:    req.UpdatedBy,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) handleListAnalytics(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.ListAnalyticsEvents(r.Context(), chi.URLParam(r, "guildID"), r.URL.Query().Get("type"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiAnalyticsRequest struct {
	EventType string         `json:"event_type"`
	UserID    string         `json:"user_id"`
	Payload   map[string]any `json:"payload"`
}

func (h *Handler) handleRecordAnalytics(w http.ResponseWriter, r *http.Request) {
	var req apiAnalyticsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.RecordAnalyticsEvent(r.Context(), domain.AnalyticsEvent{
		GuildID:   chi.URLParam(r, "guildID"),
		EventType: req.EventType,
		UserID:    req.UserID,
		Payload:   req.Payload,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}
