package application

import (
	"context"
	"strings"

	"github.com/minbot/dashboard/internal/domain"
)

var (
	botStatuses   = []string{"online", "idle", "dnd", "invisible"}
	activityTypes = []string{"playing", "streaming", "listening", "watching", "competing", "custom"}
)

type BotStatusView struct {
	domain.BotStatus
	Host *domain.HostMetrics `json:"host,omitempty"`
}

func defaultBotStatus() domain.BotStatus {
	return domain.BotStatus{Status: "online", ActivityType: "playing", ActivityText: "/help"}
}

// GetBotStatus returns the stored presence, or the default before the first write,
// together with a host snapshot when a host monitor is configured.
func (s *DashboardService) GetBotStatus(ctx context.Context) (BotStatusView, error) {
	status, err := s.repo.GetBotStatus(ctx)
	if err != nil {
		if !isNotFound(err) {
			return BotStatusView{}, err
		}
		status = defaultBotStatus()
	}
	view := BotStatusView{BotStatus: status}
	if s.host != nil {
		metrics, err := s.host.Snapshot(ctx)
		if err != nil {
			s.log.Warn("host snapshot failed", "err", err)
		} else {
			view.Host = &metrics
		}
	}
	return view, nil
}

func (s *DashboardService) SaveBotStatus(ctx context.Context, value domain.BotStatus) (domain.BotStatus, error) {
	value.Status = strings.ToLower(strings.TrimSpace(value.Status))
	value.ActivityType = strings.ToLower(strings.TrimSpace(value.ActivityType))
	value.ActivityText = strings.TrimSpace(value.ActivityText)
	var bad []string
	if !contains(botStatuses, value.Status) {
		bad = append(bad, "status")
	}
	if !contains(activityTypes, value.ActivityType) {
		bad = append(bad, "activity_type")
	}
	if len(value.ActivityText) > 128 {
		bad = append(bad, "activity_text")
	}
	if value.UpdatedBy != "" && !domain.ValidSnowflake(value.UpdatedBy) {
		bad = append(bad, "updated_by")
	}
	if len(bad) > 0 {
		return domain.BotStatus{}, domain.Invalid(bad...)
	}
	value.UpdatedAt = s.now()
	saved, err := s.repo.SaveBotStatus(ctx, value)
	if err != nil {
		return domain.BotStatus{}, err
	}
	s.log.Info("bot status updated", "status", saved.Status, "maintenance", saved.Maintenance)
	return saved, nil
}

func (s *DashboardService) RecordAnalyticsEvent(ctx context.Context, value domain.AnalyticsEvent) (domain.AnalyticsEvent, error) {
	value.EventType = strings.TrimSpace(value.EventType)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if value.EventType == "" || len(value.EventType) > 64 {
		bad = append(bad, "event_type")
	}
	if value.UserID != "" && !domain.ValidSnowflake(value.UserID) {
		bad = append(bad, "user_id")
	}
	if len(bad) > 0 {
		return domain.AnalyticsEvent{}, domain.Invalid(bad...)
	}
	if value.Payload == nil {
		value.Payload = map[string]any{}
	}
	return s.repo.CreateAnalyticsEvent(ctx, value)
}

func (s *DashboardService) ListAnalyticsEvents(ctx context.Context, guildID, eventType string, limit int) ([]domain.AnalyticsEvent, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	return s.repo.ListAnalyticsEvents(ctx, guildID, strings.TrimSpace(eventType), clampLimit(limit, 100, 1000))
}
