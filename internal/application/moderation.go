package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minbot/dashboard/internal/domain"
)

const maxTimeout = 28 * 24 * time.Hour

type RecordPunishmentInput struct {
	GuildID           string
	UserID            string
	ModeratorID       string
	Action            domain.ActionKind
	Reason            string
	ExpiresAt         *time.Time
	Duration          time.Duration
	Enforce           bool
	DeleteMessageDays int
	XPPenalty         int64
	Details           map[string]any
}

type PunishmentResult struct {
	Punishment domain.Punishment     `json:"punishment"`
	Log        *domain.ModerationLog `json:"log,omitempty"`
	Experience *ExperienceResult     `json:"experience,omitempty"`
	Enforced   bool                  `json:"enforced"`
	Warnings   []string              `json:"warnings,omitempty"`
}

func (in RecordPunishmentInput) validate(now time.Time) error {
	var bad []string
	if !domain.ValidSnowflake(in.GuildID) {
		bad = append(bad, "guild_id")
	}
	if !domain.ValidSnowflake(in.UserID) {
		bad = append(bad, "user_id")
	}
	if !domain.ValidSnowflake(in.ModeratorID) {
		bad = append(bad, "moderator_id")
	}
	if !in.Action.IsPunishment() {
		bad = append(bad, "action")
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		bad = append(bad, "expires_at")
	}
	if in.Duration < 0 {
		bad = append(bad, "duration_seconds")
	}
	if in.XPPenalty < 0 || in.XPPenalty > domain.MaxExperience {
		bad = append(bad, "xp_penalty")
	}
	if in.DeleteMessageDays < 0 || in.DeleteMessageDays > 7 {
		bad = append(bad, "delete_message_days")
	}
	if len(bad) > 0 {
		return domain.Invalid(bad...)
	}
	if in.Enforce && (in.Action == domain.ActionTimeout || in.Action == domain.ActionMute) && in.ExpiresAt == nil && in.Duration == 0 {
		return domain.Invalidf("timeouts need an expiry", "duration_seconds")
	}
	return nil
}

// RecordPunishment persists the punishment and its audit entry before any enforcement.
// Enforcement and penalty failures come back as warnings; the stored rows are never rolled back.
func (s *DashboardService) RecordPunishment(ctx context.Context, in RecordPunishmentInput) (PunishmentResult, error) {
	now := s.now()
	in.Reason = strings.TrimSpace(in.Reason)
	if err := in.validate(now); err != nil {
		return PunishmentResult{}, err
	}
	expiresAt := in.ExpiresAt
	if expiresAt == nil && in.Duration > 0 {
		t := now.Add(in.Duration)
		expiresAt = &t
	}

	p, err := s.repo.CreatePunishment(ctx, domain.Punishment{
		GuildID:     in.GuildID,
		UserID:      in.UserID,
		ModeratorID: in.ModeratorID,
		Action:      in.Action,
		Reason:      in.Reason,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
		Active:      true,
	})
	if err != nil {
		return PunishmentResult{}, fmt.Errorf("record punishment: %w", err)
	}
	result := PunishmentResult{Punishment: p}

	details := map[string]any{"punishment_id": p.ID}
	for k, v := range in.Details {
		details[k] = v
	}
	if expiresAt != nil {
		details["expires_at"] = expiresAt.Format(time.RFC3339)
	}
	if in.XPPenalty > 0 {
		details["xp_penalty"] = in.XPPenalty
	}
	entry, err := s.repo.CreateModerationLog(ctx, domain.ModerationLog{
		GuildID:     in.GuildID,
		UserID:      in.UserID,
		ModeratorID: in.ModeratorID,
		Action:      in.Action,
		Reason:      in.Reason,
		Details:     details,
	})
	if err != nil {
		s.log.Error("moderation log write failed", "punishment", p.ID, "err", err)
		result.Warnings = append(result.Warnings, "moderation log not written: "+err.Error())
	} else {
		result.Log = &entry
	}

	if in.XPPenalty > 0 {
		xp, err := s.applyDelta(ctx, in.GuildID, in.UserID, -in.XPPenalty, false)
		if err != nil {
			result.Warnings = append(result.Warnings, "xp penalty not applied: "+err.Error())
		} else {
			result.Experience = &xp
		}
	}

	if in.Enforce && in.Action.Enforceable() {
		if err := s.enforce(ctx, in, expiresAt, now); err != nil {
			s.log.Warn("punishment enforcement failed", "punishment", p.ID, "action", in.Action, "err", err)
			result.Warnings = append(result.Warnings, "enforcement failed: "+err.Error())
		} else {
			result.Enforced = true
		}
	}

	s.log.Info("punishment recorded", "id", p.ID, "guild", p.GuildID, "user", p.UserID, "action", p.Action, "enforced", result.Enforced)
	return result, nil
}

func (s *DashboardService) enforce(ctx context.Context, in RecordPunishmentInput, expiresAt *time.Time, now time.Time) error {
	if s.discord == nil {
		return errDiscordUnavailable
	}
	switch in.Action {
	case domain.ActionBan:
		return s.discord.Ban(ctx, in.GuildID, in.UserID, in.Reason, in.DeleteMessageDays)
	case domain.ActionKick:
		return s.discord.Kick(ctx, in.GuildID, in.UserID, in.Reason)
	case domain.ActionTimeout, domain.ActionMute:
		until := *expiresAt
		if until.Sub(now) > maxTimeout {
			until = now.Add(maxTimeout)
		}
		return s.discord.Timeout(ctx, in.GuildID, in.UserID, &until)
	}
	return nil
}

// RevokePunishment deactivates the punishment. It never deletes the row and does not undo
// any enforcement on Discord.
func (s *DashboardService) RevokePunishment(ctx context.Context, id uint, revokedBy string) (domain.Punishment, error) {
	if id == 0 {
		return domain.Punishment{}, domain.Invalid("id")
	}
	if revokedBy != "" && !domain.ValidSnowflake(revokedBy) {
		return domain.Punishment{}, domain.Invalid("revoked_by")
	}
	current, err := s.repo.GetPunishment(ctx, id)
	if err != nil {
		return domain.Punishment{}, fmt.Errorf("punishment %d: %w", id, err)
	}
	if !current.Active {
		return current, nil
	}
	p, err := s.repo.RevokePunishment(ctx, id, revokedBy, s.now())
	if err != nil {
		return domain.Punishment{}, err
	}
	if _, err := s.repo.CreateModerationLog(ctx, domain.ModerationLog{
		GuildID:     p.GuildID,
		UserID:      p.UserID,
		ModeratorID: revokedBy,
		Action:      domain.ActionRevoke,
		Reason:      "revoked " + string(p.Action),
		Details:     map[string]any{"punishment_id": p.ID},
	}); err != nil {
		s.log.Warn("revoke audit entry failed", "punishment", p.ID, "err", err)
	}
	return p, nil
}

func (s *DashboardService) GetPunishment(ctx context.Context, id uint) (domain.Punishment, error) {
	if id == 0 {
		return domain.Punishment{}, domain.Invalid("id")
	}
	return s.repo.GetPunishment(ctx, id)
}

func (s *DashboardService) ListPunishments(ctx context.Context, filter domain.PunishmentFilter) ([]domain.Punishment, error) {
	if filter.GuildID != "" && !domain.ValidSnowflake(filter.GuildID) {
		return nil, domain.Invalid("guild_id")
	}
	if filter.UserID != "" && !domain.ValidSnowflake(filter.UserID) {
		return nil, domain.Invalid("user_id")
	}
	filter.Limit = clampLimit(filter.Limit, 100, 1000)
	return s.repo.ListPunishments(ctx, filter)
}

func (s *DashboardService) RecordModerationLog(ctx context.Context, value domain.ModerationLog) (domain.ModerationLog, error) {
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if !domain.ValidSnowflake(value.UserID) {
		bad = append(bad, "user_id")
	}
	if !domain.ValidSnowflake(value.ModeratorID) {
		bad = append(bad, "moderator_id")
	}
	if _, ok := domain.ParseActionKind(string(value.Action)); !ok {
		bad = append(bad, "action")
	}
	if len(bad) > 0 {
		return domain.ModerationLog{}, domain.Invalid(bad...)
	}
	value.Reason = strings.TrimSpace(value.Reason)
	return s.repo.CreateModerationLog(ctx, value)
}

func (s *DashboardService) ListModerationLogs(ctx context.Context, filter domain.ModerationLogFilter) ([]domain.ModerationLog, error) {
	if filter.GuildID != "" && !domain.ValidSnowflake(filter.GuildID) {
		return nil, domain.Invalid("guild_id")
	}
	if filter.Action != "" {
		kind, ok := domain.ParseActionKind(string(filter.Action))
		if !ok {
			return nil, domain.Invalid("action")
		}
		filter.Action = kind
	}
	filter.Limit = clampLimit(filter.Limit, 100, 1000)
	return s.repo.ListModerationLogs(ctx, filter)
}

func (s *DashboardService) ModerationStats(ctx context.Context, guildID string, days int) (domain.ModerationStats, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.ModerationStats{}, err
	}
	if s.stats == nil {
		return domain.ModerationStats{}, fmt.Errorf("moderation stats reader not configured")
	}
	days = clampLimit(days, 30, 365)
	return s.stats.ModerationStats(ctx, guildID, s.now().AddDate(0, 0, -days))
}
