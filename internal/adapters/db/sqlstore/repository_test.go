package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minbot/dashboard/internal/domain"
)

const (
	guildID = "112233445566778899"
	userA   = "223344556677889900"
	userB   = "334455667788990011"
	modID   = "445566778899001122"
)

func openTestRepo(t *testing.T) (*DashboardRepository, *StatsReader) {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "dashboard_test.db")

	db, err := Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	stats, err := NewStatsReader(db)
	if err != nil {
		t.Fatalf("stats reader: %v", err)
	}
	return NewDashboardRepository(db), stats
}

func TestApplyExperienceDeltaCreatesClampsAndDerivesLevel(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	change, err := repo.ApplyExperienceDelta(ctx, guildID, userA, 260, true)
	if err != nil {
		t.Fatalf("apply on missing record: %v", err)
	}
	if change.Record.Experience != 260 || change.Record.Level != 2 {
		t.Fatalf("expected 260 xp at level 2, got %+v", change.Record)
	}
	if change.PreviousXP != 0 || change.PreviousLevel != 0 {
		t.Fatalf("expected a fresh record, got previous %d/%d", change.PreviousXP, change.PreviousLevel)
	}

	change, err = repo.ApplyExperienceDelta(ctx, guildID, userA, -1000, false)
	if err != nil {
		t.Fatalf("apply negative delta: %v", err)
	}
	if change.Record.Experience != 0 || change.Record.Level != 0 {
		t.Fatalf("expected clamp to zero, got %+v", change.Record)
	}
	if change.PreviousLevel != 2 {
		t.Fatalf("expected previous level 2, got %d", change.PreviousLevel)
	}

	stored, err := repo.GetUserLevel(ctx, guildID, userA)
	if err != nil {
		t.Fatalf("get user level: %v", err)
	}
	if stored.Experience != 0 {
		t.Fatalf("stored experience went negative: %d", stored.Experience)
	}

	if _, err := repo.GetUserLevel(ctx, guildID, userB); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown member, got %v", err)
	}
}

func TestApplyExperienceDeltaBoundsAndActivity(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if _, err := repo.ApplyExperienceDelta(ctx, guildID, userA, domain.MaxExperience+1, false); !errors.As(err, new(*domain.ValidationError)) {
		t.Fatalf("expected validation error for out-of-range delta, got %v", err)
	}
	if _, err := repo.ApplyExperienceDelta(ctx, guildID, userA, domain.MaxExperience, false); err != nil {
		t.Fatalf("apply max delta: %v", err)
	}
	change, err := repo.ApplyExperienceDelta(ctx, guildID, userA, domain.MaxExperience, false)
	if err != nil {
		t.Fatalf("apply past cap: %v", err)
	}
	if change.Record.Experience != domain.MaxExperience {
		t.Fatalf("expected experience held at %d, got %d", domain.MaxExperience, change.Record.Experience)
	}
	if !change.Record.LastActivityAt.IsZero() {
		t.Fatalf("manual adjustments must not stamp activity, got %v", change.Record.LastActivityAt)
	}

	change, err = repo.ApplyExperienceDelta(ctx, guildID, userB, 5, true)
	if err != nil {
		t.Fatalf("apply message delta: %v", err)
	}
	if change.Record.LastActivityAt.IsZero() {
		t.Fatal("message activity should stamp last activity")
	}
}

func TestApplyExperienceDeltaConcurrentWritersLoseNothing(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ApplyExperienceDelta(ctx, guildID, userA, 10, false); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent apply: %v", err)
	}

	stored, err := repo.GetUserLevel(ctx, guildID, userA)
	if err != nil {
		t.Fatalf("get user level: %v", err)
	}
	if stored.Experience != writers*10 {
		t.Fatalf("expected %d xp, got %d", writers*10, stored.Experience)
	}
}

func TestLeaderboardOrdersByExperience(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	_, _ = repo.ApplyExperienceDelta(ctx, guildID, userA, 50, false)
	_, _ = repo.ApplyExperienceDelta(ctx, guildID, userB, 500, false)

	rows, err := repo.ListLeaderboard(ctx, guildID, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != userB || rows[1].UserID != userA {
		t.Fatalf("unexpected leaderboard order: %+v", rows)
	}

	count, err := repo.CountUserLevels(ctx, guildID)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 records, got %d (%v)", count, err)
	}

	some, err := repo.ListUserLevels(ctx, guildID, []string{userA})
	if err != nil || len(some) != 1 || some[0].UserID != userA {
		t.Fatalf("expected only userA, got %+v (%v)", some, err)
	}
}

func TestReplaceUserRolesIsFullReplace(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if err := repo.ReplaceUserRoles(ctx, guildID, userA, domain.RoleSourceLevel, []string{"1001", "1002"}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := repo.ReplaceUserRoles(ctx, guildID, userA, "manual", []string{"2001"}); err != nil {
		t.Fatalf("manual replace: %v", err)
	}
	if err := repo.ReplaceUserRoles(ctx, guildID, userA, domain.RoleSourceLevel, []string{"1002"}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	roles, err := repo.ListUserRoles(ctx, guildID, userA)
	if err != nil {
		t.Fatalf("list user roles: %v", err)
	}
	got := map[string]string{}
	for _, r := range roles {
		got[r.RoleID] = r.Source
	}
	if len(got) != 2 || got["1002"] != domain.RoleSourceLevel || got["2001"] != "manual" {
		t.Fatalf("unexpected assignments: %+v", got)
	}
}

func TestGuildOverrideKeepsNullFields(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if _, err := repo.CreateCommand(ctx, domain.CommandDefinition{Name: "rank", Category: "leveling", Enabled: true, CooldownSeconds: 5, Permissions: []string{}}); err != nil {
		t.Fatalf("create command: %v", err)
	}

	disabled := false
	if _, err := repo.UpsertGuildOverride(ctx, domain.GuildCommandOverride{GuildID: guildID, CommandName: "rank", Enabled: &disabled}); err != nil {
		t.Fatalf("upsert override: %v", err)
	}
	o, err := repo.GetGuildOverride(ctx, guildID, "rank")
	if err != nil {
		t.Fatalf("get override: %v", err)
	}
	if o.Enabled == nil || *o.Enabled {
		t.Fatalf("expected enabled=false override, got %+v", o.Enabled)
	}
	if o.CooldownSeconds != nil || o.Permissions != nil {
		t.Fatalf("unset fields must stay null: %+v", o)
	}

	perms := []string{"MANAGE_GUILD"}
	cooldown := 30
	if _, err := repo.UpsertGuildOverride(ctx, domain.GuildCommandOverride{GuildID: guildID, CommandName: "rank", CooldownSeconds: &cooldown, Permissions: &perms}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	o, _ = repo.GetGuildOverride(ctx, guildID, "rank")
	if o.Enabled != nil {
		t.Fatalf("upsert replaces the whole override, enabled should be null now")
	}
	if o.CooldownSeconds == nil || *o.CooldownSeconds != 30 || o.Permissions == nil || (*o.Permissions)[0] != "MANAGE_GUILD" {
		t.Fatalf("unexpected override: %+v", o)
	}

	if err := repo.DeleteGuildOverride(ctx, guildID, "rank"); err != nil {
		t.Fatalf("delete override: %v", err)
	}
	if _, err := repo.GetGuildOverride(ctx, guildID, "rank"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestPunishmentsRevokeAndStats(t *testing.T) {
	ctx := context.Background()
	repo, stats := openTestRepo(t)
	now := time.Now().UTC()

	ban, err := repo.CreatePunishment(ctx, domain.Punishment{GuildID: guildID, UserID: userA, ModeratorID: modID, Action: domain.ActionBan, IssuedAt: now, Active: true})
	if err != nil {
		t.Fatalf("create punishment: %v", err)
	}
	if _, err := repo.CreatePunishment(ctx, domain.Punishment{GuildID: guildID, UserID: userB, ModeratorID: modID, Action: domain.ActionWarn, IssuedAt: now, Active: true}); err != nil {
		t.Fatalf("create warn: %v", err)
	}
	if _, err := repo.CreatePunishment(ctx, domain.Punishment{GuildID: guildID, UserID: userB, ModeratorID: modID, Action: domain.ActionWarn, IssuedAt: now.AddDate(0, 0, -90), Active: true}); err != nil {
		t.Fatalf("create old warn: %v", err)
	}

	revoked, err := repo.RevokePunishment(ctx, ban.ID, modID, now)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.Active || revoked.RevokedAt == nil || revoked.RevokedBy != modID {
		t.Fatalf("unexpected revoked row: %+v", revoked)
	}

	active, err := repo.ListPunishments(ctx, domain.PunishmentFilter{GuildID: guildID, ActiveOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active punishments, got %d", len(active))
	}

	s, err := stats.ModerationStats(ctx, guildID, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("moderation stats: %v", err)
	}
	if s.Total != 2 || s.ByModerator[modID] != 2 || s.ByAction["ban"] != 1 || s.ByAction["warn"] != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestModerationLogDetailsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if _, err := repo.CreateModerationLog(ctx, domain.ModerationLog{GuildID: guildID, UserID: userA, ModeratorID: modID, Action: domain.ActionKick, Details: map[string]any{"punishment_id": 7}}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	if _, err := repo.CreateModerationLog(ctx, domain.ModerationLog{GuildID: guildID, UserID: userB, ModeratorID: modID, Action: domain.ActionWarn}); err != nil {
		t.Fatalf("create log: %v", err)
	}

	logs, err := repo.ListModerationLogs(ctx, domain.ModerationLogFilter{GuildID: guildID, Action: domain.ActionKick, Limit: 10})
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].UserID != userA {
		t.Fatalf("unexpected logs: %+v", logs)
	}
	if id, ok := logs[0].Details["punishment_id"].(float64); !ok || id != 7 {
		t.Fatalf("details not preserved: %+v", logs[0].Details)
	}
}

func TestReplaceGuildRolesPreservesCustom(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if _, err := repo.CreateRole(ctx, domain.Role{ID: domain.CustomRolePrefix + "vip", GuildID: guildID, Name: "VIP"}); err != nil {
		t.Fatalf("create custom role: %v", err)
	}
	if err := repo.ReplaceGuildRoles(ctx, guildID, []domain.Role{{ID: "5001", Name: "Old"}}, true); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := repo.ReplaceGuildRoles(ctx, guildID, []domain.Role{{ID: "5002", Name: "New"}}, true); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	roles, err := repo.ListRoles(ctx, guildID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	ids := map[string]bool{}
	for _, r := range roles {
		ids[r.ID] = true
	}
	if len(ids) != 2 || !ids["5002"] || !ids[domain.CustomRolePrefix+"vip"] {
		t.Fatalf("unexpected roles after preserve sync: %+v", ids)
	}

	if err := repo.ReplaceGuildRoles(ctx, guildID, nil, false); err != nil {
		t.Fatalf("full replace: %v", err)
	}
	roles, _ = repo.ListRoles(ctx, guildID)
	if len(roles) != 0 {
		t.Fatalf("expected all roles removed, got %+v", roles)
	}
}

func TestGiveawayEntriesAndFinish(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	g, err := repo.CreateGiveaway(ctx, domain.Giveaway{GuildID: guildID, ChannelID: "998877665544332211", Prize: "Nitro", WinnerCount: 1, HostID: modID, EndsAt: time.Now().Add(time.Hour).UTC(), Status: domain.GiveawayActive})
	if err != nil {
		t.Fatalf("create giveaway: %v", err)
	}
	for _, u := range []string{userA, userB, userA} {
		if err := repo.AddGiveawayEntry(ctx, g.ID, u); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}
	g, err = repo.GetGiveaway(ctx, g.ID)
	if err != nil || g.EntryCount != 2 {
		t.Fatalf("expected 2 distinct entries, got %d (%v)", g.EntryCount, err)
	}

	done, err := repo.FinishGiveaway(ctx, g.ID, domain.GiveawayEnded, []string{userB})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.Status != domain.GiveawayEnded || len(done.Winners) != 1 || done.Winners[0] != userB {
		t.Fatalf("unexpected finished giveaway: %+v", done)
	}

	list, err := repo.ListGiveaways(ctx, guildID, domain.GiveawayEnded, 10)
	if err != nil || len(list) != 1 || list[0].EntryCount != 2 {
		t.Fatalf("unexpected giveaway list: %+v (%v)", list, err)
	}
}

func TestBotStatusSingleton(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)

	if _, err := repo.GetBotStatus(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found before first write, got %v", err)
	}
	if _, err := repo.SaveBotStatus(ctx, domain.BotStatus{Status: "idle", ActivityType: "watching", ActivityText: "logs", Maintenance: true, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := repo.SaveBotStatus(ctx, domain.BotStatus{Status: "online", ActivityType: "playing", Maintenance: false, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	status, err := repo.GetBotStatus(ctx)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status.Status != "online" || status.Maintenance {
		t.Fatalf("expected last write to win, got %+v", status)
	}

	var rows int64
	repo.db.Model(&BotStatusModel{}).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected a single status row, got %d", rows)
	}
}

func TestActiveFilterSkipsLapsedPunishments(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	for _, exp := range []*time.Time{&past, &future, nil} {
		if _, err := repo.CreatePunishment(ctx, domain.Punishment{
			GuildID: guildID, UserID: userA, ModeratorID: modID,
			Action: domain.ActionTimeout, IssuedAt: now, ExpiresAt: exp, Active: true,
		}); err != nil {
			t.Fatalf("create punishment: %v", err)
		}
	}

	active, err := repo.ListPunishments(ctx, domain.PunishmentFilter{GuildID: guildID, ActiveOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active punishments, got %d", len(active))
	}

	all, err := repo.ListPunishments(ctx, domain.PunishmentFilter{GuildID: guildID, Limit: 10})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	lapsed := 0
	for _, p := range all {
		if !p.Active {
			lapsed++
		}
	}
	if len(all) != 3 || lapsed != 1 {
		t.Fatalf("expected 3 rows with 1 lapsed, got %d rows, %d lapsed", len(all), lapsed)
	}
}
