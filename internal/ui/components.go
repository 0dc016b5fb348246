package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/minbot/dashboard/internal/domain"
)

//go:generate templ generate

// DashboardData is everything the guild overview page shows.
type DashboardData struct {
	Guild       domain.Guild
	Status      domain.BotStatus
	Host        *domain.HostMetrics
	Leaderboard []domain.UserLevelView
	LevelRoles  []domain.LevelRoleRule
	Commands    []domain.EffectiveCommand
	Punishments []domain.Punishment
	Warnings    []string
}

func guildName(g domain.Guild) string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

func statusLine(s domain.BotStatus) string {
	return s.Status + " · " + s.ActivityType + " " + s.ActivityText
}

func hostLine(h *domain.HostMetrics) string {
	return fmt.Sprintf("%s · cpu %.1f%% · mem %.1f%%", h.Hostname, h.CPUPercent, h.MemoryPercent)
}

func searchAction(guildID string) string {
	return "@post('/dashboard/" + guildID + "/leaderboard/search')"
}

func memberLabel(row domain.UserLevelView) string {
	if row.Username != "" {
		return row.Username
	}
	return row.UserID
}

func progressLabel(p domain.LevelProgress) string {
	return strconv.FormatFloat(p.Percent, 'f', 2, 64) + "%"
}

func roleLabel(rule domain.LevelRoleRule) string {
	if rule.RoleName != "" {
		return rule.RoleName
	}
	return rule.RoleID
}

func roleColor(c int) string {
	return fmt.Sprintf("#%06x", c)
}

func commandLabel(c domain.EffectiveCommand) string {
	if c.Overridden {
		return "/" + c.Name + " *"
	}
	return "/" + c.Name
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func punishmentLine(p domain.Punishment) string {
	line := string(p.Action) + " · " + p.UserID + " by " + p.ModeratorID + " · " + p.Reason
	if p.ExpiresAt != nil {
		line += " · until " + p.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return line
}

// FormatXP renders an experience total with thousands separators.
func FormatXP(v int64) string {
	raw := strconv.FormatInt(v, 10)
	neg := v < 0
	if neg {
		raw = raw[1:]
	}
	out := make([]byte, 0, len(raw)+len(raw)/3)
	for i := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, raw[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
