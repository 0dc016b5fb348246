package domain

import "time"

type Guild struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon"`
	OwnerID          string     `json:"owner_id"`
	MemberCount      int        `json:"member_count"`
	CommandsSyncedAt *time.Time `json:"commands_synced_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type UserLevel struct {
	ID             uint      `json:"id"`
	GuildID        string    `json:"guild_id"`
	UserID         string    `json:"user_id"`
	Experience     int64     `json:"experience"`
	Level          int       `json:"level"`
	Username       string    `json:"username"`
	Avatar         string    `json:"avatar"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserLevelView is a level record enriched with progression figures for display.
type UserLevelView struct {
	UserLevel
	Rank     int           `json:"rank,omitempty"`
	Progress LevelProgress `json:"progress"`
}

type LevelRoleRule struct {
	ID        uint      `json:"id"`
	GuildID   string    `json:"guild_id"`
	Level     int       `json:"level"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	RoleColor int       `json:"role_color"`
	CreatedAt time.Time `json:"created_at"`
}

type LevelingConfig struct {
	GuildID            string    `json:"guild_id"`
	Enabled            bool      `json:"enabled"`
	XPPerMessage       int       `json:"xp_per_message"`
	CooldownSeconds    int       `json:"cooldown_seconds"`
	AnnounceChannelID  string    `json:"announce_channel_id"`
	LevelUpMessage     string    `json:"level_up_message"`
	ExcludedRoleIDs    []string  `json:"excluded_role_ids"`
	ExcludedChannelIDs []string  `json:"excluded_channel_ids"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultLevelingConfig is served for guilds that never saved a configuration.
func DefaultLevelingConfig(guildID string) LevelingConfig {
	return LevelingConfig{
		GuildID:            guildID,
		Enabled:            false,
		XPPerMessage:       15,
		CooldownSeconds:    60,
		LevelUpMessage:     "GG {user}, you reached level {level}!",
		ExcludedRoleIDs:    []string{},
		ExcludedChannelIDs: []string{},
	}
}

type UserRoleAssignment struct {
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

const RoleSourceLevel = "level"

type CommandDefinition struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Enabled         bool      `json:"enabled"`
	CooldownSeconds int       `json:"cooldown_seconds"`
	Permissions     []string  `json:"permissions"`
	UsageCount      int64     `json:"usage_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GuildCommandOverride carries only the fields a guild chose to override; nil means inherit.
type GuildCommandOverride struct {
	ID              uint      `json:"id"`
	GuildID         string    `json:"guild_id"`
	CommandName     string    `json:"command_name"`
	Enabled         *bool     `json:"enabled"`
	CooldownSeconds *int      `json:"cooldown_seconds"`
	Permissions     *[]string `json:"permissions"`
	UsageCount      int64     `json:"usage_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type EffectiveCommand struct {
	GuildID         string   `json:"guild_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Enabled         bool     `json:"enabled"`
	CooldownSeconds int      `json:"cooldown_seconds"`
	Permissions     []string `json:"permissions"`
	UsageCount      int64    `json:"usage_count"`
	Overridden      bool     `json:"overridden"`
}

type ModerationLog struct {
	ID          uint           `json:"id"`
	GuildID     string         `json:"guild_id"`
	UserID      string         `json:"user_id"`
	ModeratorID string         `json:"moderator_id"`
	Action      ActionKind     `json:"action"`
	Reason      string         `json:"reason"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ModerationLogFilter struct {
	GuildID string
	UserID  string
	Action  ActionKind
	Limit   int
}

type Punishment struct {
	ID          uint       `json:"id"`
	GuildID     string     `json:"guild_id"`
	UserID      string     `json:"user_id"`
	ModeratorID string     `json:"moderator_id"`
	Action      ActionKind `json:"action"`
	Reason      string     `json:"reason"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Active      bool       `json:"active"`
	RevokedAt   *time.Time `json:"revoked_at"`
	RevokedBy   string     `json:"revoked_by"`
}

type PunishmentFilter struct {
	GuildID    string
	UserID     string
	ActiveOnly bool
	Limit      int
}

type ModerationStats struct {
	GuildID     string           `json:"guild_id"`
	Since       time.Time        `json:"since"`
	ByModerator map[string]int64 `json:"by_moderator"`
	ByAction    map[string]int64 `json:"by_action"`
	Total       int64            `json:"total"`
}

type Role struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guild_id"`
	Name        string    `json:"name"`
	Color       int       `json:"color"`
	Position    int       `json:"position"`
	Permissions string    `json:"permissions"`
	Hoist       bool      `json:"hoist"`
	Mentionable bool      `json:"mentionable"`
	Managed     bool      `json:"managed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const CustomRolePrefix = "custom_"

type Announcement struct {
	ID        uint       `json:"id"`
	GuildID   string     `json:"guild_id"`
	ChannelID string     `json:"channel_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     int        `json:"color"`
	AuthorID  string     `json:"author_id"`
	MessageID string     `json:"message_id"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type GiveawayStatus string

const (
	GiveawayActive    GiveawayStatus = "active"
	GiveawayEnded     GiveawayStatus = "ended"
	GiveawayCancelled GiveawayStatus = "cancelled"
)

type Giveaway struct {
	ID          uint           `json:"id"`
	GuildID     string         `json:"guild_id"`
	ChannelID   string         `json:"channel_id"`
	Prize       string         `json:"prize"`
	WinnerCount int            `json:"winner_count"`
	HostID      string         `json:"host_id"`
	EndsAt      time.Time      `json:"ends_at"`
	Status      GiveawayStatus `json:"status"`
	Winners     []string       `json:"winners"`
	EntryCount  int            `json:"entry_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ReactionRole struct {
	ID        uint      `json:"id"`
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	MessageID string    `json:"message_id"`
	Emoji     string    `json:"emoji"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BotStatus struct {
	Status       string    `json:"status"`
	ActivityType string    `json:"activity_type"`
	ActivityText string    `json:"activity_text"`
	Maintenance  bool      `json:"maintenance"`
	UpdatedBy    string    `json:"updated_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HostMetrics struct {
	Hostname      string  `json:"hostname"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
}

type AnalyticsEvent struct {
	ID        uint           `json:"id"`
	GuildID   string         `json:"guild_id"`
	EventType string         `json:"event_type"`
	UserID    string         `json:"user_id"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}
