package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/minbot/dashboard/internal/domain"
)

const defaultEmbedColor = 0x5865F2

func (s *DashboardService) CreateAnnouncement(ctx context.Context, value domain.Announcement) (domain.Announcement, error) {
	value.Title = strings.TrimSpace(value.Title)
	value.Content = strings.TrimSpace(value.Content)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if !domain.ValidSnowflake(value.ChannelID) {
		bad = append(bad, "channel_id")
	}
	if value.Title == "" && value.Content == "" {
		bad = append(bad, "content")
	}
	if len(value.Content) > 4096 {
		bad = append(bad, "content")
	}
	if value.AuthorID != "" && !domain.ValidSnowflake(value.AuthorID) {
		bad = append(bad, "author_id")
	}
	if len(bad) > 0 {
		return domain.Announcement{}, domain.Invalid(bad...)
	}
	if value.Color == 0 {
		value.Color = defaultEmbedColor
	}
	value.MessageID = ""
	value.SentAt = nil
	return s.repo.CreateAnnouncement(ctx, value)
}

func (s *DashboardService) ListAnnouncements(ctx context.Context, guildID string, limit int) ([]domain.Announcement, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	return s.repo.ListAnnouncements(ctx, guildID, clampLimit(limit, 50, 500))
}

func (s *DashboardService) DeleteAnnouncement(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Invalid("id")
	}
	return s.repo.DeleteAnnouncement(ctx, id)
}

// SendAnnouncement posts the stored announcement as an embed. Sending twice is rejected.
func (s *DashboardService) SendAnnouncement(ctx context.Context, id uint) (domain.Announcement, error) {
	if id == 0 {
		return domain.Announcement{}, domain.Invalid("id")
	}
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return domain.Announcement{}, fmt.Errorf("announcement %d: %w", id, err)
	}
	if a.SentAt != nil {
		return domain.Announcement{}, domain.Invalidf("announcement already sent", "id")
	}
	if s.discord == nil {
		return domain.Announcement{}, errDiscordUnavailable
	}
	messageID, err := s.discord.SendEmbed(ctx, a.ChannelID, a.Title, a.Content, a.Color)
	if err != nil {
		return domain.Announcement{}, err
	}
	return s.repo.MarkAnnouncementSent(ctx, id, messageID, s.now())
}

func (s *DashboardService) CreateGiveaway(ctx context.Context, value domain.Giveaway) (domain.Giveaway, error) {
	value.Prize = strings.TrimSpace(value.Prize)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if !domain.ValidSnowflake(value.ChannelID) {
		bad = append(bad, "channel_id")
	}
	if !domain.ValidSnowflake(value.HostID) {
		bad = append(bad, "host_id")
	}
	if value.Prize == "" {
		bad = append(bad, "prize")
	}
	if value.WinnerCount < 1 || value.WinnerCount > 50 {
		bad = append(bad, "winner_count")
	}
	if !value.EndsAt.After(s.now()) {
		bad = append(bad, "ends_at")
	}
	if len(bad) > 0 {
		return domain.Giveaway{}, domain.Invalid(bad...)
	}
	value.Status = domain.GiveawayActive
	value.Winners = []string{}
	value.EntryCount = 0
	return s.repo.CreateGiveaway(ctx, value)
}

func (s *DashboardService) GetGiveaway(ctx context.Context, id uint) (domain.Giveaway, error) {
	if id == 0 {
		return domain.Giveaway{}, domain.Invalid("id")
	}
	return s.repo.GetGiveaway(ctx, id)
}

func (s *DashboardService) ListGiveaways(ctx context.Context, guildID string, status domain.GiveawayStatus, limit int) ([]domain.Giveaway, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	switch status {
	case "", domain.GiveawayActive, domain.GiveawayEnded, domain.GiveawayCancelled:
	default:
		return nil, domain.Invalid("status")
	}
	return s.repo.ListGiveaways(ctx, guildID, status, clampLimit(limit, 50, 500))
}

func (s *DashboardService) EnterGiveaway(ctx context.Context, id uint, userID string) (domain.Giveaway, error) {
	if id == 0 {
		return domain.Giveaway{}, domain.Invalid("id")
	}
	if err := requireIDs("user_id", userID); err != nil {
		return domain.Giveaway{}, err
	}
	g, err := s.repo.GetGiveaway(ctx, id)
	if err != nil {
		return domain.Giveaway{}, fmt.Errorf("giveaway %d: %w", id, err)
	}
	if g.Status != domain.GiveawayActive || !g.EndsAt.After(s.now()) {
		return domain.Giveaway{}, domain.Invalidf("giveaway is closed", "id")
	}
	if err := s.repo.AddGiveawayEntry(ctx, id, userID); err != nil {
		return domain.Giveaway{}, err
	}
	return s.repo.GetGiveaway(ctx, id)
}

// DrawGiveaway picks up to WinnerCount distinct entrants and ends the giveaway.
func (s *DashboardService) DrawGiveaway(ctx context.Context, id uint) (domain.Giveaway, error) {
	if id == 0 {
		return domain.Giveaway{}, domain.Invalid("id")
	}
	unlock := s.locks.Lock(fmt.Sprintf("giveaway:%d", id))
	defer unlock()

	g, err := s.repo.GetGiveaway(ctx, id)
	if err != nil {
		return domain.Giveaway{}, fmt.Errorf("giveaway %d: %w", id, err)
	}
	if g.Status != domain.GiveawayActive {
		return domain.Giveaway{}, domain.Invalidf("giveaway is not active", "id")
	}
	entries, err := s.repo.ListGiveawayEntries(ctx, id)
	if err != nil {
		return domain.Giveaway{}, err
	}
	rand.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	n := min(g.WinnerCount, len(entries))
	winners := append([]string{}, entries[:n]...)
	out, err := s.repo.FinishGiveaway(ctx, id, domain.GiveawayEnded, winners)
	if err != nil {
		return domain.Giveaway{}, err
	}
	s.log.Info("giveaway drawn", "id", id, "guild", g.GuildID, "entries", len(entries), "winners", n)
	return out, nil
}

func (s *DashboardService) CancelGiveaway(ctx context.Context, id uint) (domain.Giveaway, error) {
	if id == 0 {
		return domain.Giveaway{}, domain.Invalid("id")
	}
	g, err := s.repo.GetGiveaway(ctx, id)
	if err != nil {
		return domain.Giveaway{}, fmt.Errorf("giveaway %d: %w", id, err)
	}
	if g.Status != domain.GiveawayActive {
		return g, nil
	}
	return s.repo.FinishGiveaway(ctx, id, domain.GiveawayCancelled, []string{})
}

func (s *DashboardService) CreateReactionRole(ctx context.Context, value domain.ReactionRole) (domain.ReactionRole, error) {
	value.Emoji = strings.TrimSpace(value.Emoji)
	var bad []string
	if !domain.ValidSnowflake(value.GuildID) {
		bad = append(bad, "guild_id")
	}
	if !domain.ValidSnowflake(value.ChannelID) {
		bad = append(bad, "channel_id")
	}
	if !domain.ValidSnowflake(value.MessageID) {
		bad = append(bad, "message_id")
	}
	if value.Emoji == "" {
		bad = append(bad, "emoji")
	}
	if !domain.ValidRoleID(value.RoleID) {
		bad = append(bad, "role_id")
	}
	if len(bad) > 0 {
		return domain.ReactionRole{}, domain.Invalid(bad...)
	}
	return s.repo.CreateReactionRole(ctx, value)
}

func (s *DashboardService) ListReactionRoles(ctx context.Context, guildID string) ([]domain.ReactionRole, error) {
	if err := requireIDs("guild_id", guildID); err != nil {
		return nil, err
	}
	return s.repo.ListReactionRoles(ctx, guildID)
}

func (s *DashboardService) DeleteReactionRole(ctx context.Context, guildID string, id uint) error {
	if err := requireIDs("guild_id", guildID); err != nil {
		return err
	}
	if id == 0 {
		return domain.Invalid("id")
	}
	return s.repo.DeleteReactionRole(ctx, guildID, id)
}

