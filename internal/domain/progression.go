package domain

import "math"

const (
	baseLevelExperience = 100
	levelGrowthFactor   = 1.5

	// Levels beyond this overflow int64 thresholds long before any real guild gets there.
	maxLevel = 90
)

// MaxExperience bounds every stored total and every single delta. Its level sits far
// below maxLevel, so level and progress stay consistent for every total in [0, MaxExperience].
const MaxExperience int64 = 1_000_000_000_000

// ValidExperienceDelta reports whether delta can be applied without leaving the bounded range.
func ValidExperienceDelta(delta int64) bool {
	return delta >= -MaxExperience && delta <= MaxExperience
}

// ExperienceRequiredForLevel returns the experience needed to advance from
// level to level+1. It is an increment, not a cumulative threshold.
func ExperienceRequiredForLevel(level int) int64 {
	if level < 0 {
		level = 0
	}
	return int64(math.Floor(baseLevelExperience * math.Pow(levelGrowthFactor, float64(level))))
}

// CumulativeExperienceForLevel is the total experience at which level is reached.
func CumulativeExperienceForLevel(level int) int64 {
	var total int64
	for i := 0; i < level; i++ {
		total += ExperienceRequiredForLevel(i)
	}
	return total
}

// CurrentLevelProgress returns the experience earned inside level.
func CurrentLevelProgress(totalExperience int64, level int) int64 {
	return totalExperience - CumulativeExperienceForLevel(level)
}

// LevelForExperience is the smallest level whose cumulative threshold exceeds
// totalExperience. Stored levels are always recomputed through it.
func LevelForExperience(totalExperience int64) int {
	if totalExperience <= 0 {
		return 0
	}
	if totalExperience > MaxExperience {
		totalExperience = MaxExperience
	}
	var cumulative int64
	for level := 0; level < maxLevel; level++ {
		cumulative += ExperienceRequiredForLevel(level)
		if cumulative > totalExperience {
			return level
		}
	}
	return maxLevel
}

type LevelProgress struct {
	Level      int     `json:"level"`
	CurrentXP  int64   `json:"current_xp"`
	RequiredXP int64   `json:"required_xp"`
	Percent    float64 `json:"percent"`
}

func Progress(totalExperience int64) LevelProgress {
	totalExperience = min(max(totalExperience, 0), MaxExperience)
	level := LevelForExperience(totalExperience)
	current := CurrentLevelProgress(totalExperience, level)
	required := ExperienceRequiredForLevel(level)
	percent := 0.0
	if required > 0 {
		percent = math.Round(float64(current)/float64(required)*10000) / 100
	}
	return LevelProgress{Level: level, CurrentXP: current, RequiredXP: required, Percent: percent}
}

// ClampExperience applies delta to current, keeping the result in [0, MaxExperience].
// The bounds are checked before adding so the sum never overflows.
func ClampExperience(current, delta int64) int64 {
	current = min(max(current, 0), MaxExperience)
	switch {
	case delta > MaxExperience-current:
		return MaxExperience
	case delta < -current:
		return 0
	}
	return current + delta
}
