package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/inconshreveable/log15/v3"
	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/domain"
	"github.com/minbot/dashboard/internal/logging"
)

type Handler struct {
	service *application.DashboardService
	log     log15.Logger
}

func NewRouter(service *application.DashboardService, logger log15.Logger) http.Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{service: service, log: logger.New("module", "http")}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.AccessLog(h.log))
	r.Use(h.recoverJSON)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/health", http.StatusSeeOther)
	})
	r.Get("/dashboard/{guildID}", h.handleDashboard)
	r.Post("/dashboard/{guildID}/leaderboard/search", h.handleLeaderboardSearch)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.handleHealth)
		api.Get("/bot/status", h.handleGetBotStatus)
		api.Put("/bot/status", h.handleSaveBotStatus)

		api.Get("/commands", h.handleListCommands)
		api.Post("/commands", h.handleCreateCommand)

		api.Get("/punishments/{id}", h.handleGetPunishment)
		api.Post("/punishments/{id}/revoke", h.handleRevokePunishment)

		api.Delete("/announcements/{id}", h.handleDeleteAnnouncement)
		api.Post("/announcements/{id}/send", h.handleSendAnnouncement)

		api.Get("/giveaways/{id}", h.handleGetGiveaway)
		api.Post("/giveaways/{id}/entries", h.handleEnterGiveaway)
		api.Post("/giveaways/{id}/draw", h.handleDrawGiveaway)
		api.Post("/giveaways/{id}/cancel", h.handleCancelGiveaway)

		api.Get("/guilds", h.handleListGuilds)
		api.Post("/guilds", h.handleSaveGuild)
		api.Route("/guilds/{guildID}", func(g chi.Router) {
			g.Get("/", h.handleGetGuild)

			g.Get("/roles", h.handleListRoles)
			g.Post("/roles", h.handleCreateCustomRole)
			g.Post("/roles/sync", h.handleSyncGuildRoles)

			g.Get("/leaderboard", h.handleLeaderboard)
			g.Get("/levels/{userID}", h.handleGetUserLevel)
			g.Post("/levels/{userID}/xp", h.handleApplyExperience)
			g.Post("/levels/{userID}/message", h.handleAwardMessage)
			g.Get("/users/{userID}/roles", h.handleListUserRoles)

			g.Get("/level-roles", h.handleListLevelRoles)
			g.Post("/level-roles", h.handleCreateLevelRole)
			g.Delete("/level-roles/{id}", h.handleDeleteLevelRole)
			g.Post("/level-roles/sync", h.handleSyncLevelRoles)

			g.Get("/leveling-config", h.handleGetLevelingConfig)
			g.Put("/leveling-config", h.handleSaveLevelingConfig)

			g.Get("/commands", h.handleListEffectiveCommands)
			g.Post("/commands/sync", h.handleMarkCommandsSynced)
			g.Get("/commands/{name}", h.handleGetEffectiveCommand)
			g.Put("/commands/{name}", h.handleSetCommandOverride)
			g.Delete("/commands/{name}", h.handleClearCommandOverride)

			g.Get("/moderation/logs", h.handleListModerationLogs)
			g.Post("/moderation/logs", h.handleCreateModerationLog)
			g.Get("/moderation/stats", h.handleModerationStats)
			g.Get("/punishments", h.handleListPunishments)
			g.Post("/punishments", h.handleRecordPunishment)

			g.Get("/announcements", h.handleListAnnouncements)
			g.Post("/announcements", h.handleCreateAnnouncement)
			g.Get("/giveaways", h.handleListGiveaways)
			g.Post("/giveaways", h.handleCreateGiveaway)
			g.Get("/reaction-roles", h.handleListReactionRoles)
			g.Post("/reaction-roles", h.handleCreateReactionRole)
			g.Delete("/reaction-roles/{id}", h.handleDeleteReactionRole)

			g.Get("/analytics", h.handleListAnalytics)
			g.Post("/analytics", h.handleRecordAnalytics)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// recoverJSON turns a handler panic into a 500 JSON body.
func (h *Handler) recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.log.Error("handler panic", "path", r.URL.Path, "panic", fmt.Sprint(rec))
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeData answers a successful write.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.ValidationError
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &invalid):
		body := map[string]any{"error": invalid.Error()}
		if len(invalid.Fields) > 0 {
			body["details"] = invalid.Fields
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.As(err, &upstream):
		switch upstream.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			writeJSON(w, upstream.Status, map[string]any{"error": upstream.Message})
		default:
			h.log.Error("upstream failure", "path", r.URL.Path, "service", upstream.Service, "status", upstream.Status, "err", upstream.Message)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": upstream.Service + " request failed", "details": upstream.Error()})
		}
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error", "details": err.Error()})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.Invalidf("invalid payload")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalidf("invalid payload: " + err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, domain.Invalid(name)
	}
	return uint(v), nil
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domain.Invalid(name)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.Invalid(name)
	}
	return v, nil
}
