package domain

import (
	"math"
	"testing"
)

func TestExperienceRequiredForLevel(t *testing.T) {
	cases := map[int]int64{0: 100, 1: 150, 2: 225, 3: 337, 5: 759, 10: 5766}
	for level, want := range cases {
		if got := ExperienceRequiredForLevel(level); got != want {
			t.Fatalf("level %d: want %d, got %d", level, want, got)
		}
	}
}

func TestLevelForExperienceIsConsistentWithProgress(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 60000; xp += 7 {
		level := LevelForExperience(xp)
		if level < prev {
			t.Fatalf("level decreased at xp %d: %d -> %d", xp, prev, level)
		}
		prev = level

		progress := CurrentLevelProgress(xp, level)
		if progress < 0 || progress >= ExperienceRequiredForLevel(level) {
			t.Fatalf("xp %d level %d: progress %d outside [0,%d)", xp, level, progress, ExperienceRequiredForLevel(level))
		}
	}
}

func TestLevelForExperienceBoundaries(t *testing.T) {
	if got := LevelForExperience(99); got != 0 {
		t.Fatalf("99 xp: want level 0, got %d", got)
	}
	if got := LevelForExperience(100); got != 1 {
		t.Fatalf("100 xp: want level 1, got %d", got)
	}
	if got := LevelForExperience(249); got != 1 {
		t.Fatalf("249 xp: want level 1, got %d", got)
	}
	if got := LevelForExperience(250); got != 2 {
		t.Fatalf("250 xp: want level 2, got %d", got)
	}
	if got := LevelForExperience(-5); got != 0 {
		t.Fatalf("negative xp: want level 0, got %d", got)
	}
}

func TestProgress(t *testing.T) {
	p := Progress(175)
	if p.Level != 1 || p.CurrentXP != 75 || p.RequiredXP != 150 || p.Percent != 50 {
		t.Fatalf("unexpected progress: %+v", p)
	}
}

func TestClampExperience(t *testing.T) {
	if got := ClampExperience(0, -50); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
	if got := ClampExperience(30, -10); got != 20 {
		t.Fatalf("want 20, got %d", got)
	}
}

func TestProgressHoldsAtExperienceCap(t *testing.T) {
	for _, xp := range []int64{MaxExperience - 1, MaxExperience} {
		level := LevelForExperience(xp)
		if level >= maxLevel {
			t.Fatalf("xp %d reached the level ceiling %d", xp, level)
		}
		progress := CurrentLevelProgress(xp, level)
		if progress < 0 || progress >= ExperienceRequiredForLevel(level) {
			t.Fatalf("xp %d level %d: progress %d outside [0,%d)", xp, level, progress, ExperienceRequiredForLevel(level))
		}
	}
	if got, want := LevelForExperience(math.MaxInt64), LevelForExperience(MaxExperience); got != want {
		t.Fatalf("totals above the cap: want level %d, got %d", want, got)
	}
	if p := Progress(math.MaxInt64); p.CurrentXP >= p.RequiredXP {
		t.Fatalf("progress above the cap not clamped: %+v", p)
	}
}

func TestClampExperienceNeverOverflows(t *testing.T) {
	cases := []struct {
		current, delta, want int64
	}{
		{100, math.MaxInt64, MaxExperience},
		{MaxExperience, 1, MaxExperience},
		{100, math.MinInt64, 0},
		{MaxExperience - 10, 5, MaxExperience - 5},
	}
	for _, tc := range cases {
		if got := ClampExperience(tc.current, tc.delta); got != tc.want {
			t.Fatalf("ClampExperience(%d, %d) = %d, want %d", tc.current, tc.delta, got, tc.want)
		}
	}
	if ValidExperienceDelta(MaxExperience+1) || ValidExperienceDelta(-MaxExperience-1) || !ValidExperienceDelta(-MaxExperience) {
		t.Fatalf("delta bound check is off")
	}
}
