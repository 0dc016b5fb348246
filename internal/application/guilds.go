package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minbot/dashboard/internal/domain"
)

func (s *DashboardService) SaveGuild(ctx context.Context, value domain.Guild) (domain.Guild, error) {
	value.Name = strings.TrimSpace(value.Name)
	var bad []string
	if !domain.ValidSnowflake(value.ID) {
		bad = append(bad, "id")
	}
	if value.Name == "" {
		bad = append(bad, "name")
	}
	if value.OwnerID != "" && !domain.ValidSnowflake(value.OwnerID) {
		bad = append(bad, "owner_id")
	}
	if value.MemberCount < 0 {
		bad = append(bad, "member_count")
	}
	if len(bad) > 0 {
		return domain.Guild{}, domain.Invalid(bad...)
	}
	return s.repo.UpsertGuild(ctx, value)
}

func (s *DashboardService) GetGuild(ctx context.Context, guildID string) (domain.Guild, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.Guild{}, err
	}
	return s.repo.GetGuild(ctx, guildID)
}

func (s *DashboardService) ListGuilds(ctx context.Context, limit int) ([]domain.Guild, error) {
	return s.repo.ListGuilds(ctx, clampLimit(limit, 100, 1000))
}

func (s *DashboardService) ListRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	return s.repo.ListRoles(ctx, guildID)
}

// SyncGuildRoles mirrors the guild's Discord roles into the store.
// Dashboard-created custom_ roles survive the replace.
func (s *DashboardService) SyncGuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	if s.discord == nil {
		return nil, errDiscordUnavailable
	}
	roles, err := s.discord.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range roles {
		roles[i].GuildID = guildID
		roles[i].UpdatedAt = now
	}
	if err := s.repo.ReplaceGuildRoles(ctx, guildID, roles, true); err != nil {
		return nil, fmt.Errorf("replace roles: %w", err)
	}
	s.log.Info("guild roles synced", "guild", guildID, "count", len(roles))
	return s.repo.ListRoles(ctx, guildID)
}

// CreateCustomRole stores a dashboard-only role. It is never pushed to Discord.
func (s *DashboardService) CreateCustomRole(ctx context.Context, value domain.Role) (domain.Role, error) {
	value.Name = strings.TrimSpace(value.Name)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if value.Name == "" {
		bad = append(bad, "name")
	}
	if value.Color < 0 || value.Color > 0xFFFFFF {
		bad = append(bad, "color")
	}
	if len(bad) > 0 {
		return domain.Role{}, domain.Invalid(bad...)
	}
	value.ID = domain.CustomRolePrefix + uuid.NewString()
	value.Managed = false
	value.UpdatedAt = s.now()
	return s.repo.CreateRole(ctx, value)
}

func (s *DashboardService) ListUserRoles(ctx context.Context, guildID, userID string) ([]domain.UserRoleAssignment, error) {
	if err := requireIDs("guild_id", guildID, "user_id", userID); err != nil {
		return nil, err
	}
	return s.repo.ListUserRoles(ctx, guildID, userID)
}
