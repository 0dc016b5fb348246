package discord

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/minbot/dashboard/internal/domain"
)

// Gateway calls the Discord REST API with the bot token. It never opens a gateway websocket.
type Gateway struct {
	session *discordgo.Session
}

func New(token string) (*Gateway, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discord bot token is empty")
	}
	token = strings.TrimPrefix(token, "Bot ")
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return NewWithSession(session), nil
}

func NewWithSession(session *discordgo.Session) *Gateway {
	return &Gateway{session: session}
}

func (g *Gateway) GuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, upstream(err)
	}
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, domain.Role{
			ID:          r.ID,
			GuildID:     guildID,
			Name:        r.Name,
			Color:       r.Color,
			Position:    r.Position,
			Permissions: strconv.FormatInt(r.Permissions, 10),
			Hoist:       r.Hoist,
			Mentionable: r.Mentionable,
			Managed:     r.Managed,
		})
	}
	return out, nil
}

func (g *Gateway) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	return upstream(g.session.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx)))
}

func (g *Gateway) Kick(ctx context.Context, guildID, userID, reason string) error {
	return upstream(g.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

// Timeout sets the member's communication timeout; a nil until clears it.
func (g *Gateway) Timeout(ctx context.Context, guildID, userID string, until *time.Time) error {
	return upstream(g.session.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx)))
}

func (g *Gateway) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return upstream(g.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (g *Gateway) SendEmbed(ctx context.Context, channelID, title, content string, color int) (string, error) {
	msg, err := g.session.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: content,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", upstream(err)
	}
	return msg.ID, nil
}

// upstream keeps the Discord status code so the HTTP layer can pass 401/403/404 through.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	out := &domain.UpstreamError{Service: "discord", Status: http.StatusBadGateway, Message: err.Error(), Err: err}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Response != nil {
			out.Status = restErr.Response.StatusCode
		}
		if restErr.Message != nil && restErr.Message.Message != "" {
			out.Message = restErr.Message.Message
		}
	}
	return out
}
