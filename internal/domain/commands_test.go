package domain

import (
	"reflect"
	"testing"
)

func TestEffectiveCommandConfigOverrideWinsOnlyForSetFields(t *testing.T) {
	global := CommandDefinition{Name: "rank", Enabled: true, CooldownSeconds: 0, Permissions: []string{}}
	disabled := false

	got := EffectiveCommandConfig(global, &GuildCommandOverride{GuildID: "42", CommandName: "rank", Enabled: &disabled})
	if got.Enabled {
		t.Fatalf("override should disable the command")
	}
	if got.CooldownSeconds != 0 {
		t.Fatalf("cooldown should fall back to global, got %d", got.CooldownSeconds)
	}
	if !reflect.DeepEqual(got.Permissions, []string{}) {
		t.Fatalf("permissions should fall back to global, got %v", got.Permissions)
	}
	if !got.Overridden {
		t.Fatalf("expected overridden flag")
	}
}

func TestEffectiveCommandConfigWithoutOverride(t *testing.T) {
	global := CommandDefinition{Name: "ban", Enabled: true, CooldownSeconds: 5, Permissions: []string{"BAN_MEMBERS"}, UsageCount: 900}

	got := EffectiveCommandConfig(global, nil)
	if got.UsageCount != 0 {
		t.Fatalf("guild usage count should default to 0, got %d", got.UsageCount)
	}
	if !got.Enabled || got.CooldownSeconds != 5 || len(got.Permissions) != 1 || got.Overridden {
		t.Fatalf("unexpected effective config: %+v", got)
	}

	got.Permissions[0] = "mutated"
	if global.Permissions[0] != "BAN_MEMBERS" {
		t.Fatalf("merge must not alias the global permission slice")
	}
}

func TestEffectiveCommandConfigAllFieldsOverridden(t *testing.T) {
	enabled := true
	cooldown := 30
	perms := []string{"MANAGE_GUILD"}
	global := CommandDefinition{Name: "giveaway", Enabled: false, CooldownSeconds: 10, Permissions: []string{"ADMINISTRATOR"}}

	got := EffectiveCommandConfig(global, &GuildCommandOverride{Enabled: &enabled, CooldownSeconds: &cooldown, Permissions: &perms, UsageCount: 3})
	if !got.Enabled || got.CooldownSeconds != 30 || !reflect.DeepEqual(got.Permissions, perms) || got.UsageCount != 3 {
		t.Fatalf("unexpected effective config: %+v", got)
	}
}
