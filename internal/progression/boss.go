package progression

import (
	"time"

	"gorillaDoAPI/internal/types/bossfight"
	"gorillaDoAPI/internal/types/profile"
)

const (
	BossUnlockLevel  = 5
	BossUnlockStreak = 5

	BossMaxHP     = 100
	BossDamage    = 20
	BossRegen     = 15
	BossFightDays = 5

	DefaultBossName = "The Shadow of Sloth"
)

// BossUnlocked evaluates the unlock gate against the live profile. The gate
// is never stored; losing the streak re-locks the arena.
func BossUnlocked(p *profile.Profile) bool {
	return p.Level >= BossUnlockLevel && p.CurrentStreak >= BossUnlockStreak
}

// NewBossFight builds the single allowed active instance. Callers enforce
// the at-most-one-active rule before persisting it.
func NewBossFight(now time.Time) *bossfight.BossFight {
	return &bossfight.BossFight{
		BossName:      DefaultBossName,
		BossMaxHP:     BossMaxHP,
		BossCurrentHP: BossMaxHP,
		StartedAt:     now,
		EndsAt:        now.AddDate(0, 0, BossFightDays),
		IsActive:      true,
	}
}

type BossTickResult struct {
	HPBefore int  `json:"hp_before"`
	HPAfter  int  `json:"hp_after"`
	Damaged  bool `json:"damaged"`
	Resolved bool `json:"resolved"`
	Won      bool `json:"won"`
}

// ApplyBossTick advances an active fight by one day. Completing every active
// daily task deals BossDamage; anything less (including having no daily
// tasks at all) lets the boss regenerate BossRegen. The fight resolves won
// when HP hits zero, or lost when the deadline passes with HP remaining.
// Terminal fights are immutable.
func ApplyBossTick(f *bossfight.BossFight, allDailiesCompleted bool, now time.Time) (*BossTickResult, error) {
	if !f.IsActive {
		return nil, &ConflictError{Reason: "boss fight is already resolved"}
	}

	res := &BossTickResult{HPBefore: f.BossCurrentHP}

	if allDailiesCompleted {
		f.BossCurrentHP -= BossDamage
		if f.BossCurrentHP < 0 {
			f.BossCurrentHP = 0
		}
		res.Damaged = true
	} else {
		f.BossCurrentHP += BossRegen
		if f.BossCurrentHP > f.BossMaxHP {
			f.BossCurrentHP = f.BossMaxHP
		}
	}
	res.HPAfter = f.BossCurrentHP

	if f.BossCurrentHP == 0 {
		won := true
		f.IsWon = &won
		f.IsActive = false
		res.Resolved = true
		res.Won = true
		return res, nil
	}

	if !now.Before(f.EndsAt) {
		won := false
		f.IsWon = &won
		f.IsActive = false
		res.Resolved = true
	}

	return res, nil
}
