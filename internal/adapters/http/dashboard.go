package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/minbot/dashboard/internal/domain"
	"github.com/minbot/dashboard/internal/ui"
	"github.com/starfederation/datastar-go/datastar"
)

const dashboardLeaderboardSize = 25

// handleDashboard loads every panel concurrently. A failing panel becomes a
// warning on the page; only a missing guild fails the request.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	guildID := chi.URLParam(r, "guildID")
	guild, err := h.service.GetGuild(ctx, guildID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		} else if domain.IsValidation(err) {
			status = http.StatusBadRequest
		}
		h.renderFlash(ctx, w, status, err.Error())
		return
	}

	data := ui.DashboardData{Guild: guild}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	panel := func(name string, load func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := load(); err != nil {
				h.log.Warn("dashboard panel failed", "guild", guildID, "panel", name, "err", err)
				mu.Lock()
				data.Warnings = append(data.Warnings, name+": "+err.Error())
				mu.Unlock()
			}
		}()
	}
	panel("status", func() error {
		v, err := h.service.GetBotStatus(ctx)
		if err == nil {
			data.Status, data.Host = v.BotStatus, v.Host
		}
		return err
	})
	panel("leaderboard", func() error {
		v, err := h.service.Leaderboard(ctx, guildID, dashboardLeaderboardSize)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		data.Leaderboard = v
		return err
	})
	panel("level roles", func() error {
		v, err := h.service.ListLevelRoles(ctx, guildID)
		data.LevelRoles = v
		return err
	})
	panel("commands", func() error {
		v, err := h.service.ListEffectiveCommands(ctx, guildID)
		data.Commands = v
		return err
	})
	panel("punishments", func() error {
		v, err := h.service.ListPunishments(ctx, domain.PunishmentFilter{GuildID: guildID, ActiveOnly: true, Limit: 20})
		data.Punishments = v
		return err
	})
	wg.Wait()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.DashboardPage(data).Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type leaderboardSignals struct {
	LeaderboardQuery string `json:"leaderboardQuery"`
	LeaderboardLimit string `json:"leaderboardLimit"`
}

func (h *Handler) handleLeaderboardSearch(w http.ResponseWriter, r *http.Request) {
	var sig leaderboardSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid leaderboard query")
		return
	}
	limit := dashboardLeaderboardSize
	if raw := strings.TrimSpace(sig.LeaderboardLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.renderFlash(r.Context(), w, http.StatusBadRequest, "Limit must be a positive number")
			return
		}
		limit = parsed
	}

	rows, err := h.service.Leaderboard(r.Context(), chi.URLParam(r, "guildID"), limit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		h.renderFlash(r.Context(), w, http.StatusInternalServerError, err.Error())
		return
	}
	rows = filterLeaderboard(rows, sig.LeaderboardQuery)
	renderHTMLFragments(r.Context(), w, http.StatusOK, ui.LeaderboardRows(rows))
}

// filterLeaderboard keeps rows whose user id or name contains query. Ranks are
// left as computed over the whole guild.
func filterLeaderboard(rows []domain.UserLevelView, query string) []domain.UserLevelView {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	out := make([]domain.UserLevelView, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(row.UserID, query) || strings.Contains(strings.ToLower(row.Username), query) {
			out = append(out, row)
		}
	}
	return out
}

func renderHTMLFragments(ctx context.Context, w http.ResponseWriter, status int, fragments ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		_ = fragment.Render(ctx, w)
	}
}

func (h *Handler) renderFlash(ctx context.Context, w http.ResponseWriter, status int, message string) {
	kind := "info"
	if status >= 400 {
		kind = "error"
	}
	renderHTMLFragments(ctx, w, status, ui.Flash(message, kind))
}
