package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/domain"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMaybeTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func printUserLevel(v domain.UserLevelView) {
	printKV([][2]string{
		{"guild", v.GuildID},
		{"user", v.UserID},
		{"level", strconv.Itoa(v.Level)},
		{"experience", strconv.FormatInt(v.Experience, 10)},
		{"progress", fmt.Sprintf("%d/%d (%.2f%%)", v.Progress.CurrentXP, v.Progress.RequiredXP, v.Progress.Percent)},
		{"last_activity", formatTime(v.LastActivityAt)},
	})
}

func printExperienceResult(v application.ExperienceResult) {
	printUserLevel(v.Record)
	printKV([][2]string{
		{"applied_delta", strconv.FormatInt(v.Delta, 10)},
		{"previous_level", strconv.Itoa(v.PreviousLevel)},
		{"role_sync_suggested", strconv.FormatBool(v.RoleSyncSuggested)},
	})
}

func printPunishments(items []domain.Punishment) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			string(item.Action),
			item.UserID,
			item.ModeratorID,
			strconv.FormatBool(item.Active),
			formatTime(item.IssuedAt),
			formatMaybeTime(item.ExpiresAt),
			item.Reason,
		})
	}
	printTable([]string{"ID", "ACTION", "USER", "MODERATOR", "ACTIVE", "ISSUED_AT", "EXPIRES_AT", "REASON"}, rows)
}

func printEffectiveCommands(items []domain.EffectiveCommand) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		overridden := ""
		if item.Overridden {
			overridden = "yes"
		}
		rows = append(rows, []string{
			item.Name,
			item.Category,
			strconv.FormatBool(item.Enabled),
			strconv.Itoa(item.CooldownSeconds),
			strings.Join(item.Permissions, ","),
			strconv.FormatInt(item.UsageCount, 10),
			overridden,
		})
	}
	printTable([]string{"NAME", "CATEGORY", "ENABLED", "COOLDOWN", "PERMISSIONS", "USES", "OVERRIDDEN"}, rows)
}

func printLevelRoleSync(v application.LevelRoleSyncResult) {
	rows := make([][]string, 0, len(v.Users))
	for _, u := range v.Users {
		rows = append(rows, []string{u.UserID, strconv.Itoa(u.Level), strings.Join(u.Roles, ",")})
	}
	printTable([]string{"USER", "LEVEL", "ROLES"}, rows)
	for _, w := range v.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}
