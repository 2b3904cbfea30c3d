package progression

import (
	"gorillaDoAPI/internal/types/profile"
	"gorillaDoAPI/internal/types/task"
)

// Fixed XP rewards per difficulty. Completions snapshot these values, so
// changing them only affects future completions.
const (
	XPEasy   = 10
	XPMedium = 25
	XPHard   = 50
)

// LevelThreshold returns the XP needed to finish the given level.
func LevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

// RewardForDifficulty maps a task difficulty to its fixed XP reward.
func RewardForDifficulty(d task.Difficulty) (int, error) {
	switch d {
	case task.DifficultyEasy:
		return XPEasy, nil
	case task.DifficultyMedium:
		return XPMedium, nil
	case task.DifficultyHard:
		return XPHard, nil
	default:
		return 0, &ValidationError{Field: "difficulty", Reason: "must be easy, medium or hard"}
	}
}

type XPResult struct {
	XPAwarded   int  `json:"xp_awarded"`
	LevelBefore int  `json:"level_before"`
	LevelAfter  int  `json:"level_after"`
	LeveledUp   bool `json:"leveled_up"`
}

// ApplyXP adds earned XP to the profile, rolling overflow into the next
// level until xp < LevelThreshold(level) holds again. A single award can
// cross more than one level, so this loops rather than branching once.
// earned must be one of the fixed difficulty rewards; anything else is a
// caller contract violation and is rejected without clamping.
func ApplyXP(p *profile.Profile, earned int) (*XPResult, error) {
	if earned != XPEasy && earned != XPMedium && earned != XPHard {
		return nil, &ValidationError{Field: "xp_earned", Reason: "not a recognized difficulty reward"}
	}

	res := &XPResult{XPAwarded: earned, LevelBefore: p.Level}

	if p.Level < 1 {
		p.Level = 1
	}

	total := p.XP + earned
	for total >= LevelThreshold(p.Level) {
		total -= LevelThreshold(p.Level)
		p.Level++
	}

	p.XP = total
	p.GorillaMood = profile.MoodHappy

	res.LevelAfter = p.Level
	res.LeveledUp = res.LevelAfter > res.LevelBefore
	return res, nil
}
