package sqlstore

import (
	"time"

	"gorm.io/datatypes"
)

type GuildModel struct {
	ID               string `gorm:"primaryKey"`
	Name             string `gorm:"not null"`
	Icon             string
	OwnerID          string
	MemberCount      int `gorm:"not null;default:0"`
	CommandsSyncedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (GuildModel) TableName() string { return "guilds" }

type UserLevelModel struct {
	ID             uint   `gorm:"primaryKey"`
	GuildID        string `gorm:"not null;index:idx_user_levels_member,unique"`
	UserID         string `gorm:"not null;index:idx_user_levels_member,unique"`
	Experience     int64  `gorm:"not null;default:0"`
	Level          int    `gorm:"not null;default:0"`
	Username       string
	Avatar         string
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserLevelModel) TableName() string { return "user_levels" }

type LevelRoleModel struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"not null;index:idx_level_roles_level,unique"`
	Level     int    `gorm:"not null;index:idx_level_roles_level,unique"`
	RoleID    string `gorm:"not null"`
	RoleName  string
	RoleColor int
	CreatedAt time.Time
}

func (LevelRoleModel) TableName() string { return "level_roles" }

type UserRoleModel struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"not null;index:idx_user_roles_member"`
	UserID    string `gorm:"not null;index:idx_user_roles_member"`
	RoleID    string `gorm:"not null"`
	Source    string `gorm:"not null"`
	CreatedAt time.Time
}

func (UserRoleModel) TableName() string { return "user_roles" }

type LevelingConfigModel struct {
	GuildID            string `gorm:"primaryKey"`
	Enabled            bool   `gorm:"not null"`
	XPPerMessage       int    `gorm:"column:xp_per_message;not null"`
	CooldownSeconds    int    `gorm:"not null"`
	AnnounceChannelID  string
	LevelUpMessage     string
	ExcludedRoleIDs    datatypes.JSON `gorm:"column:excluded_role_ids"`
	ExcludedChannelIDs datatypes.JSON `gorm:"column:excluded_channel_ids"`
	UpdatedAt          time.Time
}

func (LevelingConfigModel) TableName() string { return "leveling_configs" }

type CommandModel struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null;uniqueIndex"`
	Description     string
	Category        string `gorm:"not null"`
	Enabled         bool   `gorm:"not null"`
	CooldownSeconds int    `gorm:"not null;default:0"`
	Permissions     datatypes.JSON
	UsageCount      int64 `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CommandModel) TableName() string { return "commands" }

// GuildCommandModel keeps nullable columns so "not overridden" survives a round trip.
type GuildCommandModel struct {
	ID              uint   `gorm:"primaryKey"`
	GuildID         string `gorm:"not null;index:idx_guild_commands_name,unique"`
	CommandName     string `gorm:"not null;index:idx_guild_commands_name,unique"`
	Enabled         *bool
	CooldownSeconds *int
	Permissions     datatypes.JSON
	UsageCount      int64 `gorm:"not null;default:0"`
	UpdatedAt       time.Time
}

func (GuildCommandModel) TableName() string { return "guild_commands" }

type ModerationLogModel struct {
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"not null;index"`
	UserID      string `gorm:"not null;index"`
	ModeratorID string `gorm:"not null"`
	Action      string `gorm:"not null"`
	Reason      string
	Details     datatypes.JSON
	CreatedAt   time.Time
}

func (ModerationLogModel) TableName() string { return "moderation_logs" }

type PunishmentModel struct {
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"not null;index"`
	UserID      string `gorm:"not null;index"`
	ModeratorID string `gorm:"not null"`
	Action      string `gorm:"not null"`
	Reason      string
	IssuedAt    time.Time `gorm:"not null"`
	ExpiresAt   *time.Time
	Active      bool `gorm:"not null"`
	RevokedAt   *time.Time
	RevokedBy   string
}

func (PunishmentModel) TableName() string { return "punishments" }

type RoleModel struct {
	ID          string `gorm:"primaryKey"`
	GuildID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Color       int
	Position    int
	Permissions string
	Hoist       bool
	Mentionable bool
	Managed     bool
	UpdatedAt   time.Time
}

func (RoleModel) TableName() string { return "roles" }

type AnnouncementModel struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"not null;index"`
	ChannelID string `gorm:"not null"`
	Title     string
	Content   string
	Color     int
	AuthorID  string
	MessageID string
	SentAt    *time.Time
	CreatedAt time.Time
}

func (AnnouncementModel) TableName() string { return "announcements" }

type GiveawayModel struct {
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"not null;index"`
	ChannelID   string `gorm:"not null"`
	Prize       string `gorm:"not null"`
	WinnerCount int    `gorm:"not null"`
	HostID      string
	EndsAt      time.Time
	Status      string `gorm:"not null"`
	Winners     datatypes.JSON
	CreatedAt   time.Time
}

func (GiveawayModel) TableName() string { return "giveaways" }

type GiveawayEntryModel struct {
	ID         uint   `gorm:"primaryKey"`
	GiveawayID uint   `gorm:"not null;index:idx_giveaway_entries_user,unique"`
	UserID     string `gorm:"not null;index:idx_giveaway_entries_user,unique"`
	CreatedAt  time.Time
}

func (GiveawayEntryModel) TableName() string { return "giveaway_entries" }

type ReactionRoleModel struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"not null;index"`
	ChannelID string `gorm:"not null"`
	MessageID string `gorm:"not null;index:idx_reaction_roles_emoji,unique"`
	Emoji     string `gorm:"not null;index:idx_reaction_roles_emoji,unique"`
	RoleID    string `gorm:"not null"`
	CreatedAt time.Time
}

func (ReactionRoleModel) TableName() string { return "reaction_roles" }

type BotStatusModel struct {
	ID           uint `gorm:"primaryKey"`
	Status       string
	ActivityType string
	ActivityText string
	Maintenance  bool
	UpdatedBy    string
	UpdatedAt    time.Time
}

func (BotStatusModel) TableName() string { return "bot_status" }

type AnalyticsEventModel struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"not null;index"`
	EventType string `gorm:"not null;index"`
	UserID    string
	Payload   datatypes.JSON
	CreatedAt time.Time
}

func (AnalyticsEventModel) TableName() string { return "analytics_events" }
