package application

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/minbot/dashboard/internal/domain"
)

var commandNamePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

func normalizeCommandName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *DashboardService) ListCommands(ctx context.Context) ([]domain.CommandDefinition, error) {
	return s.repo.ListCommands(ctx)
}

func (s *DashboardService) CreateCommand(ctx context.Context, value domain.CommandDefinition) (domain.CommandDefinition, error) {
	value.Name = normalizeCommandName(value.Name)
	var bad []string
	if !commandNamePattern.MatchString(value.Name) {
		bad = append(bad, "name")
	}
	if value.CooldownSeconds < 0 {
		bad = append(bad, "cooldown_seconds")
	}
	if len(bad) > 0 {
		return domain.CommandDefinition{}, domain.Invalid(bad...)
	}
	if _, err := s.repo.GetCommand(ctx, value.Name); err == nil {
		return domain.CommandDefinition{}, domain.Invalidf("command already defined", "name")
	} else if !isNotFound(err) {
		return domain.CommandDefinition{}, err
	}
	if value.Permissions == nil {
		value.Permissions = []string{}
	}
	value.Category = defaultString(strings.TrimSpace(value.Category), "general")
	return s.repo.CreateCommand(ctx, value)
}

// ListEffectiveCommands merges every global definition with the guild's overrides at read time.
func (s *DashboardService) ListEffectiveCommands(ctx context.Context, guildID string) ([]domain.EffectiveCommand, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}

	globals, err := s.repo.ListCommands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	overrides, err := s.repo.ListGuildOverrides(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list guild overrides: %w", err)
	}

	byName := make(map[string]*domain.GuildCommandOverride, len(overrides))
	for i := range overrides {
		byName[overrides[i].CommandName] = &overrides[i]
	}
	out := make([]domain.EffectiveCommand, 0, len(globals))
	for _, global := range globals {
		eff := domain.EffectiveCommandConfig(global, byName[global.Name])
		eff.GuildID = guildID
		out = append(out, eff)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *DashboardService) GetEffectiveCommand(ctx context.Context, guildID, name string) (domain.EffectiveCommand, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.EffectiveCommand{}, err
	}
	name = normalizeCommandName(name)
	global, err := s.repo.GetCommand(ctx, name)
	if err != nil {
		return domain.EffectiveCommand{}, fmt.Errorf("command %q: %w", name, err)
	}
	var override *domain.GuildCommandOverride
	o, err := s.repo.GetGuildOverride(ctx, guildID, name)
	switch {
	case err == nil:
		override = &o
	case !isNotFound(err):
		return domain.EffectiveCommand{}, err
	}
	eff := domain.EffectiveCommandConfig(global, override)
	eff.GuildID = guildID
	return eff, nil
}

// SetCommandOverride stores the guild's override; nil fields keep inheriting the global value.
func (s *DashboardService) SetCommandOverride(ctx context.Context, value domain.GuildCommandOverride) (domain.EffectiveCommand, error) {
	value.CommandName = normalizeCommandName(value.CommandName)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if value.CommandName == "" {
		bad = append(bad, "command_name")
	}
	if value.CooldownSeconds != nil && *value.CooldownSeconds < 0 {
		bad = append(bad, "cooldown_seconds")
	}
	if len(bad) > 0 {
		return domain.EffectiveCommand{}, domain.Invalid(bad...)
	}
	if _, err := s.repo.GetCommand(ctx, value.CommandName); err != nil {
		return domain.EffectiveCommand{}, fmt.Errorf("command %q: %w", value.CommandName, err)
	}
	if _, err := s.repo.UpsertGuildOverride(ctx, value); err != nil {
		return domain.EffectiveCommand{}, err
	}
	return s.GetEffectiveCommand(ctx, value.GuildID, value.CommandName)
}

func (s *DashboardService) ClearCommandOverride(ctx context.Context, guildID, name string) (domain.EffectiveCommand, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.EffectiveCommand{}, err
	}
	name = normalizeCommandName(name)
	if err := s.repo.DeleteGuildOverride(ctx, guildID, name); err != nil {
		return domain.EffectiveCommand{}, err
	}
	return s.GetEffectiveCommand(ctx, guildID, name)
}

// MarkCommandsSynced stamps the guild's command sync audit time; it plays no part in merging.
func (s *DashboardService) MarkCommandsSynced(ctx context.Context, guildID string) (domain.Guild, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return domain.Guild{}, err
	}
	return s.repo.MarkCommandsSynced(ctx, guildID, s.now())
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	return input
}
