package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minbot/dashboard/internal/domain"
)

// ExperienceResult reports an experience change. RoleSyncSuggested is set when a level
// role threshold was crossed; syncing roles stays a separate call.
type ExperienceResult struct {
	Record            domain.UserLevelView `json:"record"`
	Delta             int64                `json:"delta"`
	PreviousLevel     int                  `json:"previous_level"`
	LevelChanged      bool                 `json:"level_changed"`
	RoleSyncSuggested bool                 `json:"role_sync_suggested"`
	Skipped           bool                 `json:"skipped,omitempty"`
	SkipReason        string               `json:"skip_reason,omitempty"`
}

type UserRoleSync struct {
	UserID string   `json:"user_id"`
	Level  int      `json:"level"`
	Roles  []string `json:"roles"`
}

type LevelRoleSyncResult struct {
	GuildID  string         `json:"guild_id"`
	Users    []UserRoleSync `json:"users"`
	Applied  bool           `json:"applied"`
	Warnings []string       `json:"warnings,omitempty"`
}

func viewOf(record domain.UserLevel, rank int) domain.UserLevelView {
	progress := domain.Progress(record.Experience)
	record.Level = progress.Level
	return domain.UserLevelView{UserLevel: record, Rank: rank, Progress: progress}
}

// GetUserLevel returns the member's record, or a zero record when the member never earned experience.
func (s *DashboardService) GetUserLevel(ctx context.Context, guildID, userID string) (domain.UserLevelView, error) {
	if err := requireIDs("guild_id", guildID, "user_id", userID); err != nil {
		return domain.UserLevelView{}, err
	}
	record, err := s.repo.GetUserLevel(ctx, guildID, userID)
	if isNotFound(err) {
		return viewOf(domain.UserLevel{GuildID: guildID, UserID: userID}, 0), nil
	}
	if err != nil {
		return domain.UserLevelView{}, fmt.Errorf("load level record: %w", err)
	}
	return viewOf(record, 0), nil
}

// ApplyExperienceDelta adds delta to the member's experience, never dropping below zero,
// and recomputes the level from the new total. Missing records are created first.
func (s *DashboardService) ApplyExperienceDelta(ctx context.Context, guildID, userID string, delta int64) (ExperienceResult, error) {
	if err := requireIDs("guild_id", guildID, "user_id", userID); err != nil {
		return ExperienceResult{}, err
	}
	if !domain.ValidExperienceDelta(delta) {
		return ExperienceResult{}, domain.Invalidf(fmt.Sprintf("delta must be within ±%d", domain.MaxExperience), "delta")
	}
	return s.applyDelta(ctx, guildID, userID, delta, false)
}

func memberKey(guildID, userID string) string {
	return guildID + ":" + userID
}

func (s *DashboardService) applyDelta(ctx context.Context, guildID, userID string, delta int64, touch bool) (ExperienceResult, error) {
	unlock := s.locks.Lock(memberKey(guildID, userID))
	defer unlock()
	return s.applyDeltaLocked(ctx, guildID, userID, delta, touch)
}

// applyDeltaLocked expects the caller to hold the member's lock.
func (s *DashboardService) applyDeltaLocked(ctx context.Context, guildID, userID string, delta int64, touch bool) (ExperienceResult, error) {
	change, err := s.repo.ApplyExperienceDelta(ctx, guildID, userID, delta, touch)
	if err != nil {
		return ExperienceResult{}, fmt.Errorf("apply experience delta: %w", err)
	}

	result := ExperienceResult{
		Record:        viewOf(change.Record, 0),
		Delta:         change.Record.Experience - change.PreviousXP,
		PreviousLevel: change.PreviousLevel,
		LevelChanged:  change.PreviousLevel != change.Record.Level,
	}
	if result.Record.Level > change.PreviousLevel {
		rules, err := s.repo.ListLevelRoles(ctx, guildID)
		if err != nil {
			s.log.Warn("list level roles after xp change", "guild", guildID, "err", err)
		} else {
			result.RoleSyncSuggested = domain.CrossedLevelRole(rules, change.PreviousLevel, result.Record.Level)
		}
	}
	s.log.Debug("experience applied", "guild", guildID, "user", userID, "delta", delta, "xp", change.Record.Experience, "level", change.Record.Level)
	return result, nil
}

// AwardMessageExperience grants the guild's per-message experience unless leveling is
// disabled, the channel or one of the member's roles is excluded, or the cooldown has not elapsed.
func (s *DashboardService) AwardMessageExperience(ctx context.Context, guildID, userID, channelID string, roleIDs []string) (ExperienceResult, error) {
	if err := requireIDs("guild_id", guildID, "user_id", userID); err != nil {
		return ExperienceResult{}, err
	}
	cfg, err := s.GetLevelingConfig(ctx, guildID)
	if err != nil {
		return ExperienceResult{}, err
	}

	skip := func(reason string) (ExperienceResult, error) {
		current, err := s.GetUserLevel(ctx, guildID, userID)
		if err != nil {
			return ExperienceResult{}, err
		}
		return ExperienceResult{Record: current, PreviousLevel: current.Level, Skipped: true, SkipReason: reason}, nil
	}

	if !cfg.Enabled {
		return skip("leveling disabled")
	}
	if channelID != "" && contains(cfg.ExcludedChannelIDs, channelID) {
		return skip("channel excluded")
	}
	for _, roleID := range roleIDs {
		if contains(cfg.ExcludedRoleIDs, roleID) {
			return skip("role excluded")
		}
	}

	// The cooldown check and the award happen under one lock so that concurrent
	// messages from the same member cannot both pass the check.
	unlock := s.locks.Lock(memberKey(guildID, userID))
	defer unlock()
	record, err := s.repo.GetUserLevel(ctx, guildID, userID)
	if err != nil && !isNotFound(err) {
		return ExperienceResult{}, fmt.Errorf("load level record: %w", err)
	}
	if err == nil && cfg.CooldownSeconds > 0 && !record.LastActivityAt.IsZero() {
		if s.now().Sub(record.LastActivityAt) < time.Duration(cfg.CooldownSeconds)*time.Second {
			return skip("cooldown")
		}
	}
	return s.applyDeltaLocked(ctx, guildID, userID, int64(cfg.XPPerMessage), true)
}

func (s *DashboardService) Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.UserLevelView, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	// A guild is known once the dashboard saved it or the bot wrote any level record for it.
	if _, err := s.repo.GetGuild(ctx, guildID); err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		count, err := s.repo.CountUserLevels(ctx, guildID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("guild %s: %w", guildID, domain.ErrNotFound)
		}
	}
	rows, err := s.repo.ListLeaderboard(ctx, guildID, clampLimit(limit, 50, 500))
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserLevelView, 0, len(rows))
	for i, row := range rows {
		out = append(out, viewOf(row, i+1))
	}
	return out, nil
}

func (s *DashboardService) ListLevelRoles(ctx context.Context, guildID string) ([]domain.LevelRoleRule, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	return s.repo.ListLevelRoles(ctx, guildID)
}

func (s *DashboardService) CreateLevelRole(ctx context.Context, rule domain.LevelRoleRule) (domain.LevelRoleRule, error) {
	var bad []string
	if !domain.ValidSnowflake(rule.GuildID) {
		bad = append(bad, "guild_id")
	}
	if rule.Level < 1 {
		bad = append(bad, "level")
	}
	if !domain.ValidRoleID(rule.RoleID) {
		bad = append(bad, "role_id")
	}
	if len(bad) > 0 {
		return domain.LevelRoleRule{}, domain.Invalid(bad...)
	}

	existing, err := s.repo.ListLevelRoles(ctx, rule.GuildID)
	if err != nil {
		return domain.LevelRoleRule{}, err
	}
	for _, r := range existing {
		if r.Level == rule.Level {
			return domain.LevelRoleRule{}, domain.Invalidf(fmt.Sprintf("level %d already grants role %s", r.Level, r.RoleID), "level")
		}
	}
	rule.RoleName = strings.TrimSpace(rule.RoleName)
	return s.repo.CreateLevelRole(ctx, rule)
}

func (s *DashboardService) DeleteLevelRole(ctx context.Context, guildID string, id uint) error {
	if err := requireIDs("guild_id", guildID); err != nil {
		return err
	}
	if id == 0 {
		return domain.Invalid("id")
	}
	return s.repo.DeleteLevelRole(ctx, guildID, id)
}

// SyncLevelRoles recomputes the desired level roles of each member and fully replaces the
// stored level-role assignments. With apply set, every desired role is also pushed to Discord.
func (s *DashboardService) SyncLevelRoles(ctx context.Context, guildID string, userIDs []string, apply bool) (LevelRoleSyncResult, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return LevelRoleSyncResult{}, err
	}
	userIDs = trimmed(userIDs)
	for _, id := range userIDs {
		if !domain.ValidSnowflake(id) {
			return LevelRoleSyncResult{}, domain.Invalid("user_ids")
		}
	}

	rules, err := s.repo.ListLevelRoles(ctx, guildID)
	if err != nil {
		return LevelRoleSyncResult{}, fmt.Errorf("list level roles: %w", err)
	}
	records, err := s.repo.ListUserLevels(ctx, guildID, userIDs)
	if err != nil {
		return LevelRoleSyncResult{}, fmt.Errorf("list level records: %w", err)
	}

	known := make(map[string]domain.UserLevel, len(records))
	for _, rec := range records {
		known[rec.UserID] = rec
	}
	// Explicitly requested members without a record still get their assignments cleared.
	for _, id := range userIDs {
		if _, ok := known[id]; !ok {
			records = append(records, domain.UserLevel{GuildID: guildID, UserID: id})
		}
	}

	result := LevelRoleSyncResult{GuildID: guildID, Users: make([]UserRoleSync, 0, len(records)), Applied: apply}
	if apply && s.discord == nil {
		result.Warnings = append(result.Warnings, errDiscordUnavailable.Error())
	}
	for _, rec := range records {
		level := domain.LevelForExperience(rec.Experience)
		desired := domain.ResolveDesiredRoles(rules, level)
		if err := s.repo.ReplaceUserRoles(ctx, guildID, rec.UserID, domain.RoleSourceLevel, desired); err != nil {
			return result, fmt.Errorf("replace roles for %s: %w", rec.UserID, err)
		}
		result.Users = append(result.Users, UserRoleSync{UserID: rec.UserID, Level: level, Roles: desired})

		if !apply || s.discord == nil {
			continue
		}
		for _, roleID := range desired {
			if strings.HasPrefix(roleID, domain.CustomRolePrefix) {
				continue
			}
			if err := s.discord.AddMemberRole(ctx, guildID, rec.UserID, roleID); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("assign role %s to %s: %v", roleID, rec.UserID, err))
			}
		}
	}
	s.log.Info("level roles synced", "guild", guildID, "users", len(result.Users), "applied", apply, "warnings", len(result.Warnings))
	return result, nil
}

func (s *DashboardService) GetLevelingConfig(ctx context.Context, guildID string) (domain.LevelingConfig, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.LevelingConfig{}, err
	}
	cfg, err := s.repo.GetLevelingConfig(ctx, guildID)
	if isNotFound(err) {
		return domain.DefaultLevelingConfig(guildID), nil
	}
	return cfg, err
}

func (s *DashboardService) SaveLevelingConfig(ctx context.Context, cfg domain.LevelingConfig) (domain.LevelingConfig, error) {
	var bad []string
	if !domain.ValidSnowflake(cfg.GuildID) {
		bad = append(bad, "guild_id")
	}
	if cfg.CooldownSeconds < 0 {
		bad = append(bad, "cooldown_seconds")
	}
	if (cfg.Enabled && cfg.XPPerMessage < 1) || int64(cfg.XPPerMessage) > domain.MaxExperience {
		bad = append(bad, "xp_per_message")
	}
	if cfg.AnnounceChannelID != "" && !domain.ValidSnowflake(cfg.AnnounceChannelID) {
		bad = append(bad, "announce_channel_id")
	}
	if len(bad) > 0 {
		return domain.LevelingConfig{}, domain.Invalid(bad...)
	}
	cfg.ExcludedRoleIDs = trimmed(cfg.ExcludedRoleIDs)
	cfg.ExcludedChannelIDs = trimmed(cfg.ExcludedChannelIDs)
	return s.repo.UpsertLevelingConfig(ctx, cfg)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
