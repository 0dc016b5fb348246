package domain

import (
	"reflect"
	"testing"
)

func TestResolveDesiredRoles(t *testing.T) {
	rules := []LevelRoleRule{
		{GuildID: "1", Level: 5, RoleID: "roleA"},
		{GuildID: "1", Level: 10, RoleID: "roleB"},
	}

	cases := []struct {
		level int
		want  []string
	}{
		{level: 3, want: []string{}},
		{level: 5, want: []string{"roleA"}},
		{level: 7, want: []string{"roleA"}},
		{level: 12, want: []string{"roleA", "roleB"}},
	}
	for _, tc := range cases {
		got := ResolveDesiredRoles(rules, tc.level)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("level %d: want %v, got %v", tc.level, tc.want, got)
		}
	}
}

func TestCrossedLevelRole(t *testing.T) {
	rules := []LevelRoleRule{{Level: 5, RoleID: "a"}, {Level: 10, RoleID: "b"}}
	if !CrossedLevelRole(rules, 4, 5) {
		t.Fatalf("4 -> 5 should cross the level 5 rule")
	}
	if CrossedLevelRole(rules, 5, 9) {
		t.Fatalf("5 -> 9 crosses nothing")
	}
	if CrossedLevelRole(rules, 12, 3) {
		t.Fatalf("level loss never crosses upward")
	}
}
