package badge

import (
	"time"

	"github.com/google/uuid"
)

// Catalog slugs awarded by the progression engine.
const (
	SlugBossSlayer      = "boss_slayer"
	SlugWeekWarrior     = "week_warrior"
	SlugConsistencyKing = "consistency_king"
)

// Streak lengths that earn the milestone badges.
const (
	WeekWarriorStreak     = 7
	ConsistencyKingStreak = 30
)

type Badge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

type BadgeWithStatus struct {
	Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}
