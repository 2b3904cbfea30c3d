package bossfight

import (
	"time"

	"github.com/google/uuid"
)

type BossFight struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	BossName      string     `json:"boss_name" db:"boss_name"`
	BossMaxHP     int        `json:"boss_max_hp" db:"boss_max_hp"`
	BossCurrentHP int        `json:"boss_current_hp" db:"boss_current_hp"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	EndsAt        time.Time  `json:"ends_at" db:"ends_at"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	IsWon         *bool      `json:"is_won" db:"is_won"`
}

// ArenaResponse is what the boss screen renders: the unlock gate evaluated
// against the caller's profile plus the active fight, if any.
type ArenaResponse struct {
	Unlocked       bool       `json:"unlocked"`
	RequiredLevel  int        `json:"required_level"`
	RequiredStreak int        `json:"required_streak"`
	Level          int        `json:"level"`
	CurrentStreak  int        `json:"current_streak"`
	ActiveFight    *BossFight `json:"active_fight,omitempty"`
}
