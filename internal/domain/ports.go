package domain

import (
	"context"
	"time"
)

// ExperienceChange is the outcome of one atomic experience update.
type ExperienceChange struct {
	Record        UserLevel
	PreviousLevel int
	PreviousXP    int64
}

type DashboardRepository interface {
	UpsertGuild(ctx context.Context, value Guild) (Guild, error)
	GetGuild(ctx context.Context, guildID string) (Guild, error)
	ListGuilds(ctx context.Context, limit int) ([]Guild, error)
	MarkCommandsSynced(ctx context.Context, guildID string, at time.Time) (Guild, error)

	GetUserLevel(ctx context.Context, guildID, userID string) (UserLevel, error)
	ApplyExperienceDelta(ctx context.Context, guildID, userID string, delta int64, touchActivity bool) (ExperienceChange, error)
	ListLeaderboard(ctx context.Context, guildID string, limit int) ([]UserLevel, error)
	ListUserLevels(ctx context.Context, guildID string, userIDs []string) ([]UserLevel, error)
	CountUserLevels(ctx context.Context, guildID string) (int64, error)

	CreateLevelRole(ctx context.Context, value LevelRoleRule) (LevelRoleRule, error)
	ListLevelRoles(ctx context.Context, guildID string) ([]LevelRoleRule, error)
	DeleteLevelRole(ctx context.Context, guildID string, id uint) error
	ReplaceUserRoles(ctx context.Context, guildID, userID, source string, roleIDs []string) error
	ListUserRoles(ctx context.Context, guildID, userID string) ([]UserRoleAssignment, error)

	GetLevelingConfig(ctx context.Context, guildID string) (LevelingConfig, error)
	UpsertLevelingConfig(ctx context.Context, value LevelingConfig) (LevelingConfig, error)

	ListCommands(ctx context.Context) ([]CommandDefinition, error)
	GetCommand(ctx context.Context, name string) (CommandDefinition, error)
	CreateCommand(ctx context.Context, value CommandDefinition) (CommandDefinition, error)
	ListGuildOverrides(ctx context.Context, guildID string) ([]GuildCommandOverride, error)
	GetGuildOverride(ctx context.Context, guildID, name string) (GuildCommandOverride, error)
	UpsertGuildOverride(ctx context.Context, value GuildCommandOverride) (GuildCommandOverride, error)
	DeleteGuildOverride(ctx context.Context, guildID, name string) error

	CreateModerationLog(ctx context.Context, value ModerationLog) (ModerationLog, error)
	ListModerationLogs(ctx context.Context, filter ModerationLogFilter) ([]ModerationLog, error)
	CreatePunishment(ctx context.Context, value Punishment) (Punishment, error)
	GetPunishment(ctx context.Context, id uint) (Punishment, error)
	ListPunishments(ctx context.Context, filter PunishmentFilter) ([]Punishment, error)
	RevokePunishment(ctx context.Context, id uint, revokedBy string, at time.Time) (Punishment, error)

	ReplaceGuildRoles(ctx context.Context, guildID string, roles []Role, preserveCustom bool) error
	ListRoles(ctx context.Context, guildID string) ([]Role, error)
	CreateRole(ctx context.Context, value Role) (Role, error)

	CreateAnnouncement(ctx context.Context, value Announcement) (Announcement, error)
	GetAnnouncement(ctx context.Context, id uint) (Announcement, error)
	ListAnnouncements(ctx context.Context, guildID string, limit int) ([]Announcement, error)
	MarkAnnouncementSent(ctx context.Context, id uint, messageID string, at time.Time) (Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uint) error

	CreateGiveaway(ctx context.Context, value Giveaway) (Giveaway, error)
	GetGiveaway(ctx context.Context, id uint) (Giveaway, error)
	ListGiveaways(ctx context.Context, guildID string, status GiveawayStatus, limit int) ([]Giveaway, error)
	AddGiveawayEntry(ctx context.Context, giveawayID uint, userID string) error
	ListGiveawayEntries(ctx context.Context, giveawayID uint) ([]string, error)
	FinishGiveaway(ctx context.Context, id uint, status GiveawayStatus, winners []string) (Giveaway, error)

	CreateReactionRole(ctx context.Context, value ReactionRole) (ReactionRole, error)
	ListReactionRoles(ctx context.Context, guildID string) ([]ReactionRole, error)
	DeleteReactionRole(ctx context.Context, guildID string, id uint) error

	GetBotStatus(ctx context.Context) (BotStatus, error)
	SaveBotStatus(ctx context.Context, value BotStatus) (BotStatus, error)

	CreateAnalyticsEvent(ctx context.Context, value AnalyticsEvent) (AnalyticsEvent, error)
	ListAnalyticsEvents(ctx context.Context, guildID, eventType string, limit int) ([]AnalyticsEvent, error)
}

type StatsReader interface {
	ModerationStats(ctx context.Context, guildID string, since time.Time) (ModerationStats, error)
}

// DiscordGateway is the subset of the Discord REST API the dashboard calls.
type DiscordGateway interface {
	GuildRoles(ctx context.Context, guildID string) ([]Role, error)
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Timeout(ctx context.Context, guildID, userID string, until *time.Time) error
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	SendEmbed(ctx context.Context, channelID, title, content string, color int) (string, error)
}

type HostMonitor interface {
	Snapshot(ctx context.Context) (HostMetrics, error)
}
