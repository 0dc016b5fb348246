package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/minbot/dashboard/internal/domain"
)

func TestLeaderboardRowsEscapesUsernames(t *testing.T) {
	var buf bytes.Buffer
	rows := []domain.UserLevelView{{
		UserLevel: domain.UserLevel{UserID: "1", Username: "<b>x</b>", Experience: 12345, Level: 3},
		Rank:      1,
		Progress:  domain.Progress(12345),
	}}
	if err := LeaderboardRows(rows).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>x</b>") {
		t.Fatalf("username not escaped: %s", out)
	}
	if !strings.Contains(out, "12,345") {
		t.Fatalf("expected formatted xp in %s", out)
	}
}

func TestLeaderboardRowsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := LeaderboardRows(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No members ranked yet.") {
		t.Fatalf("missing empty state: %s", buf.String())
	}
}

func TestDashboardPageWiresSearch(t *testing.T) {
	var buf bytes.Buffer
	data := DashboardData{
		Guild:    domain.Guild{ID: "123456789012345678", Name: "Test"},
		Status:   domain.BotStatus{Status: "online", ActivityType: "playing", ActivityText: "/help"},
		Commands: []domain.EffectiveCommand{{Name: "ping", Category: "general", Enabled: true, Overridden: true}},
		Warnings: []string{"discord unavailable"},
	}
	if err := DashboardPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/dashboard/123456789012345678/leaderboard/search", "data-bind-leaderboard-query", "/ping *", "discord unavailable"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestFormatXP(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		if got := FormatXP(in); got != want {
			t.Fatalf("FormatXP(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFlashEscapesMessageAndKind(t *testing.T) {
	var buf bytes.Buffer
	if err := Flash(`<script>alert(1)</script>`, `error" onclick="x`).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") || strings.Contains(out, `" onclick="`) {
		t.Fatalf("flash not escaped: %s", out)
	}
	if !strings.HasPrefix(out, `<div id="flash" class="flash" data-kind="error`) {
		t.Fatalf("unexpected flash markup: %s", out)
	}
}

func TestDashboardPageRendersPanels(t *testing.T) {
	var buf bytes.Buffer
	data := DashboardData{
		Guild:      domain.Guild{ID: "123456789012345678", Name: "<Guild>"},
		Status:     domain.BotStatus{Status: "idle", Maintenance: true},
		Host:       &domain.HostMetrics{Hostname: "bot-1", CPUPercent: 12.5, MemoryPercent: 40},
		LevelRoles: []domain.LevelRoleRule{{Level: 5, RoleID: "1", RoleName: "Regular", RoleColor: 0x3498db}},
		Commands:   []domain.EffectiveCommand{{Name: "rank", Category: "leveling", CooldownSeconds: 5, UsageCount: 42}},
		Leaderboard: []domain.UserLevelView{{
			UserLevel: domain.UserLevel{UserID: "2", Experience: 120, Level: 1},
			Rank:      1,
			Progress:  domain.Progress(120),
		}},
	}
	if err := DashboardPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<Guild>") {
		t.Fatalf("guild name not escaped")
	}
	for _, want := range []string{
		"&lt;Guild&gt;", "maintenance mode", "bot-1 · cpu 12.5% · mem 40.0%",
		`data-color="#3498db"`, "Regular", "<td>/rank</td>", "<td>5s</td>", "<td>42</td>", `<tr><td>1</td><td>2</td>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page: %s", want, out)
		}
	}
}
