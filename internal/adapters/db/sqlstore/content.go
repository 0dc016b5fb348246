package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/minbot/dashboard/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *DashboardRepository) CreateAnnouncement(ctx context.Context, value domain.Announcement) (domain.Announcement, error) {
	m := AnnouncementModel{
		GuildID:   value.GuildID,
		ChannelID: value.ChannelID,
		Title:     value.Title,
		Content:   value.Content,
		Color:     value.Color,
		AuthorID:  value.AuthorID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Announcement{}, err
	}
	return toAnnouncement(m), nil
}

func (r *DashboardRepository) GetAnnouncement(ctx context.Context, id uint) (domain.Announcement, error) {
	var m AnnouncementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return domain.Announcement{}, notFound(err)
	}
	return toAnnouncement(m), nil
}

func (r *DashboardRepository) ListAnnouncements(ctx context.Context, guildID string, limit int) ([]domain.Announcement, error) {
	rows := make([]AnnouncementModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Announcement, 0, len(rows))
	for _, m := range rows {
		result = append(result, toAnnouncement(m))
	}
	return result, nil
}

func (r *DashboardRepository) MarkAnnouncementSent(ctx context.Context, id uint, messageID string, at time.Time) (domain.Announcement, error) {
	if err := r.db.WithContext(ctx).Model(&AnnouncementModel{}).Where("id = ?", id).
		Updates(map[string]any{"message_id": messageID, "sent_at": at}).Error; err != nil {
		return domain.Announcement{}, err
	}
	return r.GetAnnouncement(ctx, id)
}

func (r *DashboardRepository) DeleteAnnouncement(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AnnouncementModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toAnnouncement(m AnnouncementModel) domain.Announcement {
	return domain.Announcement{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Title:     m.Title,
		Content:   m.Content,
		Color:     m.Color,
		AuthorID:  m.AuthorID,
		MessageID: m.MessageID,
		SentAt:    m.SentAt,
		CreatedAt: m.CreatedAt,
	}
}

func (r *DashboardRepository) CreateGiveaway(ctx context.Context, value domain.Giveaway) (domain.Giveaway, error) {
	m := GiveawayModel{
		GuildID:     value.GuildID,
		ChannelID:   value.ChannelID,
		Prize:       value.Prize,
		WinnerCount: value.WinnerCount,
		HostID:      value.HostID,
		EndsAt:      value.EndsAt,
		Status:      string(value.Status),
		Winners:     encodeJSON(nonNil(value.Winners)),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Giveaway{}, err
	}
	return toGiveaway(m, 0), nil
}

func (r *DashboardRepository) GetGiveaway(ctx context.Context, id uint) (domain.Giveaway, error) {
	var m GiveawayModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return domain.Giveaway{}, notFound(err)
	}
	var entries int64
	if err := r.db.WithContext(ctx).Model(&GiveawayEntryModel{}).Where("giveaway_id = ?", id).Count(&entries).Error; err != nil {
		return domain.Giveaway{}, err
	}
	return toGiveaway(m, int(entries)), nil
}

type giveawayCount struct {
	GiveawayID uint
	Entries    int
}

func (r *DashboardRepository) ListGiveaways(ctx context.Context, guildID string, status domain.GiveawayStatus, limit int) ([]domain.Giveaway, error) {
	q := r.db.WithContext(ctx).Where("guild_id = ?", guildID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	rows := make([]GiveawayModel, 0)
	if err := q.Order("ends_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.Giveaway{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	counts := make([]giveawayCount, 0)
	if err := r.db.WithContext(ctx).Model(&GiveawayEntryModel{}).
		Select("giveaway_id, COUNT(*) AS entries").
		Where("giveaway_id IN ?", ids).
		Group("giveaway_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]int, len(counts))
	for _, c := range counts {
		byID[c.GiveawayID] = c.Entries
	}

	result := make([]domain.Giveaway, 0, len(rows))
	for _, m := range rows {
		result = append(result, toGiveaway(m, byID[m.ID]))
	}
	return result, nil
}

// AddGiveawayEntry is idempotent per user.
func (r *DashboardRepository) AddGiveawayEntry(ctx context.Context, giveawayID uint, userID string) error {
	m := GiveawayEntryModel{GiveawayID: giveawayID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "giveaway_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&m).Error
}

func (r *DashboardRepository) ListGiveawayEntries(ctx context.Context, giveawayID uint) ([]string, error) {
	users := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&GiveawayEntryModel{}).
		Where("giveaway_id = ?", giveawayID).Order("id ASC").Pluck("user_id", &users).Error
	return users, err
}

func (r *DashboardRepository) FinishGiveaway(ctx context.Context, id uint, status domain.GiveawayStatus, winners []string) (domain.Giveaway, error) {
	if err := r.db.WithContext(ctx).Model(&GiveawayModel{}).Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "winners": encodeJSON(nonNil(winners))}).Error; err != nil {
		return domain.Giveaway{}, err
	}
	return r.GetGiveaway(ctx, id)
}

func toGiveaway(m GiveawayModel, entries int) domain.Giveaway {
	return domain.Giveaway{
		ID:          m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		Prize:       m.Prize,
		WinnerCount: m.WinnerCount,
		HostID:      m.HostID,
		EndsAt:      m.EndsAt,
		Status:      domain.GiveawayStatus(m.Status),
		Winners:     decodeStrings(m.Winners),
		EntryCount:  entries,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *DashboardRepository) CreateReactionRole(ctx context.Context, value domain.ReactionRole) (domain.ReactionRole, error) {
	m := ReactionRoleModel{
		GuildID:   value.GuildID,
		ChannelID: value.ChannelID,
		MessageID: value.MessageID,
		Emoji:     value.Emoji,
		RoleID:    value.RoleID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ReactionRole{}, err
	}
	return toReactionRole(m), nil
}

func (r *DashboardRepository) ListReactionRoles(ctx context.Context, guildID string) ([]domain.ReactionRole, error) {
	rows := make([]ReactionRoleModel, 0)
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("message_id ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ReactionRole, 0, len(rows))
	for _, m := range rows {
		result = append(result, toReactionRole(m))
	}
	return result, nil
}

func (r *DashboardRepository) DeleteReactionRole(ctx context.Context, guildID string, id uint) error {
	res := r.db.WithContext(ctx).Where("guild_id = ? AND id = ?", guildID, id).Delete(&ReactionRoleModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toReactionRole(m ReactionRoleModel) domain.ReactionRole {
	return domain.ReactionRole{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.MessageID,
		Emoji:     m.Emoji,
		RoleID:    m.RoleID,
		CreatedAt: m.CreatedAt,
	}
}

func (r *DashboardRepository) GetBotStatus(ctx context.Context) (domain.BotStatus, error) {
	var m BotStatusModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&m).Error; err != nil {
		return domain.BotStatus{}, notFound(err)
	}
	return toBotStatus(m), nil
}

// SaveBotStatus updates the single status row, creating it on first write.
func (r *DashboardRepository) SaveBotStatus(ctx context.Context, value domain.BotStatus) (domain.BotStatus, error) {
	var saved BotStatusModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next := BotStatusModel{
			Status:       value.Status,
			ActivityType: value.ActivityType,
			ActivityText: value.ActivityText,
			Maintenance:  value.Maintenance,
			UpdatedBy:    value.UpdatedBy,
			UpdatedAt:    value.UpdatedAt,
		}
		var current BotStatusModel
		err := tx.Order("id ASC").First(&current).Error
		switch {
		case err == nil:
			next.ID = current.ID
			if err := tx.Model(&current).
				Select("status", "activity_type", "activity_text", "maintenance", "updated_by", "updated_at").
				Updates(next).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&next).Error; err != nil {
				return err
			}
		default:
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return domain.BotStatus{}, err
	}
	return toBotStatus(saved), nil
}

func toBotStatus(m BotStatusModel) domain.BotStatus {
	return domain.BotStatus{
		Status:       m.Status,
		ActivityType: m.ActivityType,
		ActivityText: m.ActivityText,
		Maintenance:  m.Maintenance,
		UpdatedBy:    m.UpdatedBy,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *DashboardRepository) CreateAnalyticsEvent(ctx context.Context, value domain.AnalyticsEvent) (domain.AnalyticsEvent, error) {
	payload := value.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	m := AnalyticsEventModel{
		GuildID:   value.GuildID,
		EventType: value.EventType,
		UserID:    value.UserID,
		Payload:   encodeJSON(payload),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.AnalyticsEvent{}, err
	}
	return toAnalyticsEvent(m), nil
}

func (r *DashboardRepository) ListAnalyticsEvents(ctx context.Context, guildID, eventType string, limit int) ([]domain.AnalyticsEvent, error) {
	q := r.db.WithContext(ctx).Where("guild_id = ?", guildID)
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	rows := make([]AnalyticsEventModel, 0)
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.AnalyticsEvent, 0, len(rows))
	for _, m := range rows {
		result = append(result, toAnalyticsEvent(m))
	}
	return result, nil
}

func toAnalyticsEvent(m AnalyticsEventModel) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{
		ID:        m.ID,
		GuildID:   m.GuildID,
		EventType: m.EventType,
		UserID:    m.UserID,
		Payload:   decodeMap(m.Payload),
		CreatedAt: m.CreatedAt,
	}
}
