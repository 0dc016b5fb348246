package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
)

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.service.Leaderboard(r.Context(), chi.URLParam(r, "guildID"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetUserLevel(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetUserLevel(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type apiExperienceRequest struct {
	Delta *int64 `json:"delta"`
}

func (h *Handler) handleApplyExperience(w http.ResponseWriter, r *http.Request) {
	var req apiExperienceRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Delta == nil {
		h.writeError(w, r, domain.Invalid("delta"))
		return
	}
	res, err := h.service.ApplyExperienceDelta(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "userID"), *req.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

type apiMessageRequest struct {
	ChannelID string   `json:"channel_id"`
	RoleIDs   []string `json:"role_ids"`
}

func (h *Handler) handleAwardMessage(w http.ResponseWriter, r *http.Request) {
	var req apiMessageRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.service.AwardMessageExperience(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "userID"), req.ChannelID, req.RoleIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *Handler) handleListUserRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUserRoles(r.Context(), chi.URLParam(r, "guildID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleListLevelRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListLevelRoles(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiCreateLevelRoleRequest struct {
	Level     int    `json:"level"`
	RoleID    string `json:"role_id"`
	RoleName  string `json:"role_name"`
	RoleColor int    `json:"role_color"`
}

func (h *Handler) handleCreateLevelRole(w http.ResponseWriter, r *http.Request) {
	var req apiCreateLevelRoleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.service.CreateLevelRole(r.Context(), domain.LevelRoleRule{
		GuildID:   chi.URLParam(r, "guildID"),
		Level:     req.Level,
		RoleID:    req.RoleID,
		RoleName:  req.RoleName,
		RoleColor: req.RoleColor,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *Handler) handleDeleteLevelRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteLevelRole(r.Context(), chi.URLParam(r, "guildID"), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"id": id})
}

type apiSyncLevelRolesRequest struct {
	UserIDs []string `json:"user_ids"`
	Apply   bool     `json:"apply"`
}

func (h *Handler) handleSyncLevelRoles(w http.ResponseWriter, r *http.Request) {
	var req apiSyncLevelRolesRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	res, err := h.service.SyncLevelRoles(r.Context(), chi.URLParam(r, "guildID"), req.UserIDs, req.Apply)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res, "warnings": res.Warnings})
}

func (h *Handler) handleGetLevelingConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetLevelingConfig(r.Context(), chi.URLParam(r, "guildID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type apiLevelingConfigRequest struct {
	Enabled            bool     `json:"enabled"`
	XPPerMessage       int      `json:"xp_per_message"`
	CooldownSeconds    int      `json:"cooldown_seconds"`
	AnnounceChannelID  string   `json:"announce_channel_id"`
	LevelUpMessage     string   `json:"level_up_message"`
	ExcludedRoleIDs    []string `json:"excluded_role_ids"`
	ExcludedChannelIDs []string `json:"excluded_channel_ids"`
}

func (h *Handler) handleSaveLevelingConfig(w http.ResponseWriter, r *http.Request) {
	var req apiLevelingConfigRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	cfg, err := h.service.SaveLevelingConfig(r.Context(), domain.LevelingConfig{
		GuildID:            chi.URLParam(r, "guildID"),
		Enabled:            req.Enabled,
		XPPerMessage:       req.XPPerMessage,
		CooldownSeconds:    req.CooldownSeconds,
		AnnounceChannelID:  req.AnnounceChannelID,
		LevelUpMessage:     req.LevelUpMessage,
		ExcludedRoleIDs:    req.ExcludedRoleIDs,
		ExcludedChannelIDs: req.ExcludedChannelIDs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}
