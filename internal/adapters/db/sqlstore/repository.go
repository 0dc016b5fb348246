package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minbot/dashboard/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type DashboardRepository struct {
	db *gorm.DB
}

// Open connects to Postgres (the hosted production database) or to a local sqlite file.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "supabase":
		return gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        dsn,
		}, cfg)
		if err != nil {
			return nil, err
		}
		// One writer keeps sqlite from reporting SQLITE_BUSY under concurrent requests.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func encodeJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func decodeStrings(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func decodeMap(raw datatypes.JSON) map[string]any {
	out := map[string]any{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

func (r *DashboardRepository) UpsertGuild(ctx context.Context, value domain.Guild) (domain.Guild, error) {
	m := GuildModel{ID: value.ID, Name: value.Name, Icon: value.Icon, OwnerID: value.OwnerID, MemberCount: value.MemberCount}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "owner_id", "member_count", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.Guild{}, err
	}
	return r.GetGuild(ctx, value.ID)
}

func (r *DashboardRepository) GetGuild(ctx context.Context, guildID string) (domain.Guild, error) {
	var m GuildModel
	if err := r.db.WithContext(ctx).Where("id = ?", guildID).First(&m).Error; err != nil {
		return domain.Guild{}, notFound(err)
	}
	return toGuild(m), nil
}

func (r *DashboardRepository) ListGuilds(ctx context.Context, limit int) ([]domain.Guild, error) {
	rows := make([]GuildModel, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Guild, 0, len(rows))
	for _, m := range rows {
		result = append(result, toGuild(m))
	}
	return result, nil
}

func (r *DashboardRepository) MarkCommandsSynced(ctx context.Context, guildID string, at time.Time) (domain.Guild, error) {
	res := r.db.WithContext(ctx).Model(&GuildModel{}).Where("id = ?", guildID).
		Updates(map[string]any{"commands_synced_at": at, "updated_at": at})
	if res.Error != nil {
		return domain.Guild{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Guild{}, domain.ErrNotFound
	}
	return r.GetGuild(ctx, guildID)
}

func toGuild(m GuildModel) domain.Guild {
	return domain.Guild{
		ID:               m.ID,
		Name:             m.Name,
		Icon:             m.Icon,
		OwnerID:          m.OwnerID,
		MemberCount:      m.MemberCount,
		CommandsSyncedAt: m.CommandsSyncedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *DashboardRepository) GetUserLevel(ctx context.Context, guildID, userID string) (domain.UserLevel, error) {
	var m UserLevelModel
	if err := r.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&m).Error; err != nil {
		return domain.UserLevel{}, notFound(err)
	}
	return toUserLevel(m), nil
}

// ApplyExperienceDelta creates the record if needed and applies delta in one statement,
// clamped to [0, MaxExperience], then stores the level derived from the new total.
func (r *DashboardRepository) ApplyExperienceDelta(ctx context.Context, guildID, userID string, delta int64, touchActivity bool) (domain.ExperienceChange, error) {
	if !domain.ValidExperienceDelta(delta) {
		return domain.ExperienceChange{}, domain.Invalid("delta")
	}
	var change domain.ExperienceChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		// Only message activity starts the cooldown clock.
		seed := UserLevelModel{GuildID: guildID, UserID: userID}
		if touchActivity {
			seed.LastActivityAt = now
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return fmt.Errorf("seed level record: %w", err)
		}

		q := tx.Where("guild_id = ? AND user_id = ?", guildID, userID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var before UserLevelModel
		if err := q.First(&before).Error; err != nil {
			return fmt.Errorf("load level record: %w", err)
		}

		updates := map[string]any{
			"experience": gorm.Expr("CASE WHEN experience + ? < 0 THEN 0 WHEN experience + ? > ? THEN ? ELSE experience + ? END",
				delta, delta, domain.MaxExperience, domain.MaxExperience, delta),
			"updated_at": now,
		}
		if touchActivity {
			updates["last_activity_at"] = now
		}
		if err := tx.Model(&UserLevelModel{}).Where("id = ?", before.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("apply experience: %w", err)
		}

		var after UserLevelModel
		if err := tx.Where("id = ?", before.ID).First(&after).Error; err != nil {
			return err
		}
		if level := domain.LevelForExperience(after.Experience); level != after.Level {
			if err := tx.Model(&UserLevelModel{}).Where("id = ?", after.ID).Update("level", level).Error; err != nil {
				return fmt.Errorf("store level: %w", err)
			}
			after.Level = level
		}

		change = domain.ExperienceChange{
			Record:        toUserLevel(after),
			PreviousLevel: domain.LevelForExperience(before.Experience),
			PreviousXP:    before.Experience,
		}
		return nil
	})
	return change, err
}

func (r *DashboardRepository) ListLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.UserLevel, error) {
	rows := make([]UserLevelModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).
		Order("experience DESC").Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toUserLevels(rows), nil
}

func (r *DashboardRepository) ListUserLevels(ctx context.Context, guildID string, userIDs []string) ([]domain.UserLevel, error) {
	q := r.db.WithContext(ctx).Where("guild_id = ?", guildID)
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	rows := make([]UserLevelModel, 0)
	if err := q.Order("experience DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toUserLevels(rows), nil
}

func (r *DashboardRepository) CountUserLevels(ctx context.Context, guildID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserLevelModel{}).Where("guild_id = ?", guildID).Count(&count).Error
	return count, err
}

func toUserLevel(m UserLevelModel) domain.UserLevel {
	return domain.UserLevel{
		ID:             m.ID,
		GuildID:        m.GuildID,
		UserID:         m.UserID,
		Experience:     m.Experience,
		Level:          m.Level,
		Username:       m.Username,
		Avatar:         m.Avatar,
		LastActivityAt: m.LastActivityAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toUserLevels(rows []UserLevelModel) []domain.UserLevel {
	result := make([]domain.UserLevel, 0, len(rows))
	for _, m := range rows {
		result = append(result, toUserLevel(m))
	}
	return result
}

func (r *DashboardRepository) CreateLevelRole(ctx context.Context, value domain.LevelRoleRule) (domain.LevelRoleRule, error) {
	m := LevelRoleModel{GuildID: value.GuildID, Level: value.Level, RoleID: value.RoleID, RoleName: value.RoleName, RoleColor: value.RoleColor}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.LevelRoleRule{}, err
	}
	return toLevelRole(m), nil
}

func (r *DashboardRepository) ListLevelRoles(ctx context.Context, guildID string) ([]domain.LevelRoleRule, error) {
	rows := make([]LevelRoleModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("level ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.LevelRoleRule, 0, len(rows))
	for _, m := range rows {
		result = append(result, toLevelRole(m))
	}
	return result, nil
}

func (r *DashboardRepository) DeleteLevelRole(ctx context.Context, guildID string, id uint) error {
	res := r.db.WithContext(ctx).Where("guild_id = ? AND id = ?", guildID, id).Delete(&LevelRoleModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toLevelRole(m LevelRoleModel) domain.LevelRoleRule {
	return domain.LevelRoleRule{
		ID:        m.ID,
		GuildID:   m.GuildID,
		Level:     m.Level,
		RoleID:    m.RoleID,
		RoleName:  m.RoleName,
		RoleColor: m.RoleColor,
		CreatedAt: m.CreatedAt,
	}
}

// ReplaceUserRoles swaps every assignment of one source for roleIDs.
func (r *DashboardRepository) ReplaceUserRoles(ctx context.Context, guildID, userID, source string, roleIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ? AND user_id = ? AND source = ?", guildID, userID, source).
			Delete(&UserRoleModel{}).Error; err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		rows := make([]UserRoleModel, 0, len(roleIDs))
		for _, roleID := range roleIDs {
			rows = append(rows, UserRoleModel{GuildID: guildID, UserID: userID, RoleID: roleID, Source: source})
		}
		return tx.Create(&rows).Error
	})
}

func (r *DashboardRepository) ListUserRoles(ctx context.Context, guildID, userID string) ([]domain.UserRoleAssignment, error) {
	rows := make([]UserRoleModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).
		Order("role_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.UserRoleAssignment, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.UserRoleAssignment{GuildID: m.GuildID, UserID: m.UserID, RoleID: m.RoleID, Source: m.Source, CreatedAt: m.CreatedAt})
	}
	return result, nil
}

func (r *DashboardRepository) GetLevelingConfig(ctx context.Context, guildID string) (domain.LevelingConfig, error) {
	var m LevelingConfigModel
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&m).Error; err != nil {
		return domain.LevelingConfig{}, notFound(err)
	}
	return domain.LevelingConfig{
		GuildID:            m.GuildID,
		Enabled:            m.Enabled,
		XPPerMessage:       m.XPPerMessage,
		CooldownSeconds:    m.CooldownSeconds,
		AnnounceChannelID:  m.AnnounceChannelID,
		LevelUpMessage:     m.LevelUpMessage,
		ExcludedRoleIDs:    decodeStrings(m.ExcludedRoleIDs),
		ExcludedChannelIDs: decodeStrings(m.ExcludedChannelIDs),
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func (r *DashboardRepository) UpsertLevelingConfig(ctx context.Context, value domain.LevelingConfig) (domain.LevelingConfig, error) {
	m := LevelingConfigModel{
		GuildID:            value.GuildID,
		Enabled:            value.Enabled,
		XPPerMessage:       value.XPPerMessage,
		CooldownSeconds:    value.CooldownSeconds,
		AnnounceChannelID:  value.AnnounceChannelID,
		LevelUpMessage:     value.LevelUpMessage,
		ExcludedRoleIDs:    encodeJSON(nonNil(value.ExcludedRoleIDs)),
		ExcludedChannelIDs: encodeJSON(nonNil(value.ExcludedChannelIDs)),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		UpdateAll: true,
	}).Create(&m).Error; err != nil {
		return domain.LevelingConfig{}, err
	}
	return r.GetLevelingConfig(ctx, value.GuildID)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *DashboardRepository) ListCommands(ctx context.Context) ([]domain.CommandDefinition, error) {
	rows := make([]CommandModel, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.CommandDefinition, 0, len(rows))
	for _, m := range rows {
		result = append(result, toCommand(m))
	}
	return result, nil
}

func (r *DashboardRepository) GetCommand(ctx context.Context, name string) (domain.CommandDefinition, error) {
	var m CommandModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return domain.CommandDefinition{}, notFound(err)
	}
	return toCommand(m), nil
}

func (r *DashboardRepository) CreateCommand(ctx context.Context, value domain.CommandDefinition) (domain.CommandDefinition, error) {
	m := CommandModel{
		Name:            value.Name,
		Description:     value.Description,
		Category:        value.Category,
		Enabled:         value.Enabled,
		CooldownSeconds: value.CooldownSeconds,
		Permissions:     encodeJSON(nonNil(value.Permissions)),
		UsageCount:      value.UsageCount,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.CommandDefinition{}, err
	}
	return toCommand(m), nil
}

func toCommand(m CommandModel) domain.CommandDefinition {
	return domain.CommandDefinition{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Category:        m.Category,
		Enabled:         m.Enabled,
		CooldownSeconds: m.CooldownSeconds,
		Permissions:     decodeStrings(m.Permissions),
		UsageCount:      m.UsageCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *DashboardRepository) ListGuildOverrides(ctx context.Context, guildID string) ([]domain.GuildCommandOverride, error) {
	rows := make([]GuildCommandModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.GuildCommandOverride, 0, len(rows))
	for _, m := range rows {
		result = append(result, toOverride(m))
	}
	return result, nil
}

func (r *DashboardRepository) GetGuildOverride(ctx context.Context, guildID, name string) (domain.GuildCommandOverride, error) {
	var m GuildCommandModel
	if err := r.db.WithContext(ctx).Where("guild_id = ? AND command_name = ?", guildID, name).First(&m).Error; err != nil {
		return domain.GuildCommandOverride{}, notFound(err)
	}
	return toOverride(m), nil
}

// UpsertGuildOverride writes all three overridable columns; nil values are stored as NULL.
// The usage counter belongs to the bot and is left alone.
func (r *DashboardRepository) UpsertGuildOverride(ctx context.Context, value domain.GuildCommandOverride) (domain.GuildCommandOverride, error) {
	m := GuildCommandModel{
		GuildID:         value.GuildID,
		CommandName:     value.CommandName,
		Enabled:         value.Enabled,
		CooldownSeconds: value.CooldownSeconds,
	}
	if value.Permissions != nil {
		m.Permissions = encodeJSON(nonNil(*value.Permissions))
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "command_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "cooldown_seconds", "permissions", "updated_at"}),
	}).Create(&m).Error; err != nil {
		return domain.GuildCommandOverride{}, err
	}
	return r.GetGuildOverride(ctx, value.GuildID, value.CommandName)
}

func (r *DashboardRepository) DeleteGuildOverride(ctx context.Context, guildID, name string) error {
	return r.db.WithContext(ctx).Where("guild_id = ? AND command_name = ?", guildID, name).
		Delete(&GuildCommandModel{}).Error
}

func toOverride(m GuildCommandModel) domain.GuildCommandOverride {
	o := domain.GuildCommandOverride{
		ID:              m.ID,
		GuildID:         m.GuildID,
		CommandName:     m.CommandName,
		Enabled:         m.Enabled,
		CooldownSeconds: m.CooldownSeconds,
		UsageCount:      m.UsageCount,
		UpdatedAt:       m.UpdatedAt,
	}
	if len(m.Permissions) > 0 && string(m.Permissions) != "null" {
		perms := decodeStrings(m.Permissions)
		o.Permissions = &perms
	}
	return o
}

func (r *DashboardRepository) CreateModerationLog(ctx context.Context, value domain.ModerationLog) (domain.ModerationLog, error) {
	details := value.Details
	if details == nil {
		details = map[string]any{}
	}
	m := ModerationLogModel{
		GuildID:     value.GuildID,
		UserID:      value.UserID,
		ModeratorID: value.ModeratorID,
		Action:      string(value.Action),
		Reason:      value.Reason,
		Details:     encodeJSON(details),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ModerationLog{}, err
	}
	return toModerationLog(m), nil
}

func (r *DashboardRepository) ListModerationLogs(ctx context.Context, filter domain.ModerationLogFilter) ([]domain.ModerationLog, error) {
	q := r.db.WithContext(ctx).Model(&ModerationLogModel{})
	if filter.GuildID != "" {
		q = q.Where("guild_id = ?", filter.GuildID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	rows := make([]ModerationLogModel, 0)
	if err := q.Order("created_at DESC").Order("id DESC").Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ModerationLog, 0, len(rows))
	for _, m := range rows {
		result = append(result, toModerationLog(m))
	}
	return result, nil
}

func toModerationLog(m ModerationLogModel) domain.ModerationLog {
	return domain.ModerationLog{
		ID:          m.ID,
		GuildID:     m.GuildID,
		UserID:      m.UserID,
		ModeratorID: m.ModeratorID,
		Action:      domain.ActionKind(m.Action),
		Reason:      m.Reason,
		Details:     decodeMap(m.Details),
		CreatedAt:   m.CreatedAt,
	}
}

func (r *DashboardRepository) CreatePunishment(ctx context.Context, value domain.Punishment) (domain.Punishment, error) {
	m := PunishmentModel{
		GuildID:     value.GuildID,
		UserID:      value.UserID,
		ModeratorID: value.ModeratorID,
		Action:      string(value.Action),
		Reason:      value.Reason,
		IssuedAt:    value.IssuedAt,
		ExpiresAt:   value.ExpiresAt,
		Active:      value.Active,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Punishment{}, err
	}
	return toPunishment(m), nil
}

func (r *DashboardRepository) GetPunishment(ctx context.Context, id uint) (domain.Punishment, error) {
	var m PunishmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return domain.Punishment{}, notFound(err)
	}
	return toPunishment(m), nil
}

func (r *DashboardRepository) ListPunishments(ctx context.Context, filter domain.PunishmentFilter) ([]domain.Punishment, error) {
	q := r.db.WithContext(ctx).Model(&PunishmentModel{})
	if filter.GuildID != "" {
		q = q.Where("guild_id = ?", filter.GuildID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ? AND (expires_at IS NULL OR expires_at > ?)", true, time.Now().UTC())
	}
	rows := make([]PunishmentModel, 0)
	if err := q.Order("issued_at DESC").Order("id DESC").Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Punishment, 0, len(rows))
	for _, m := range rows {
		result = append(result, toPunishment(m))
	}
	return result, nil
}

func (r *DashboardRepository) RevokePunishment(ctx context.Context, id uint, revokedBy string, at time.Time) (domain.Punishment, error) {
	if err := r.db.WithContext(ctx).Model(&PunishmentModel{}).Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "revoked_at": at, "revoked_by": revokedBy}).Error; err != nil {
		return domain.Punishment{}, err
	}
	return r.GetPunishment(ctx, id)
}

// toPunishment reports a lapsed punishment as inactive; the row itself is left untouched.
func toPunishment(m PunishmentModel) domain.Punishment {
	active := m.Active && (m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()))
	return domain.Punishment{
		ID:          m.ID,
		GuildID:     m.GuildID,
		UserID:      m.UserID,
		ModeratorID: m.ModeratorID,
		Action:      domain.ActionKind(m.Action),
		Reason:      m.Reason,
		IssuedAt:    m.IssuedAt,
		ExpiresAt:   m.ExpiresAt,
		Active:      active,
		RevokedAt:   m.RevokedAt,
		RevokedBy:   m.RevokedBy,
	}
}

// ReplaceGuildRoles deletes the guild's stored roles and inserts roles in their place.
// With preserveCustom, dashboard-created custom_ rows are kept.
func (r *DashboardRepository) ReplaceGuildRoles(ctx context.Context, guildID string, roles []domain.Role, preserveCustom bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("guild_id = ?", guildID)
		if preserveCustom {
			del = del.Where("id NOT LIKE ?", domain.CustomRolePrefix+"%")
		}
		if err := del.Delete(&RoleModel{}).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		rows := make([]RoleModel, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, toRoleModel(role, guildID))
		}
		return tx.Create(&rows).Error
	})
}

func (r *DashboardRepository) ListRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	rows := make([]RoleModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).
		Order("position DESC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Role, 0, len(rows))
	for _, m := range rows {
		result = append(result, toRole(m))
	}
	return result, nil
}

func (r *DashboardRepository) CreateRole(ctx context.Context, value domain.Role) (domain.Role, error) {
	m := toRoleModel(value, value.GuildID)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Role{}, err
	}
	return toRole(m), nil
}

func toRoleModel(role domain.Role, guildID string) RoleModel {
	return RoleModel{
		ID:          role.ID,
		GuildID:     guildID,
		Name:        role.Name,
		Color:       role.Color,
		Position:    role.Position,
		Permissions: defaultString(role.Permissions, "0"),
		Hoist:       role.Hoist,
		Mentionable: role.Mentionable,
		Managed:     role.Managed,
		UpdatedAt:   role.UpdatedAt,
	}
}

func toRole(m RoleModel) domain.Role {
	return domain.Role{
		ID:          m.ID,
		GuildID:     m.GuildID,
		Name:        m.Name,
		Color:       m.Color,
		Position:    m.Position,
		Permissions: m.Permissions,
		Hoist:       m.Hoist,
		Mentionable: m.Mentionable,
		Managed:     m.Managed,
		UpdatedAt:   m.UpdatedAt,
	}
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	return input
}
