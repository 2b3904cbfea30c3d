package profile

import (
	"time"

	"github.com/google/uuid"
)

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad:
		return true
	default:
		return false
	}
}

type Profile struct {
	UserID                uuid.UUID  `json:"user_id" db:"user_id"`
	ClerkID               string     `json:"clerk_id" db:"clerk_id"`
	DisplayName           *string    `json:"display_name" db:"display_name"`
	XP                    int        `json:"xp" db:"xp"`
	Level                 int        `json:"level" db:"level"`
	CurrentStreak         int        `json:"current_streak" db:"current_streak"`
	LongestStreak         int        `json:"longest_streak" db:"longest_streak"`
	LastTaskCompletedDate *time.Time `json:"last_task_completed_date" db:"last_task_completed_date"`
	GorillaMood           Mood       `json:"gorilla_mood" db:"gorilla_mood"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProfileRequest struct {
	ClerkID     string `json:"clerk_id"`
	DisplayName string `json:"display_name"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// ProfileResponse is the profile plus the derived progress the client renders.
type ProfileResponse struct {
	*Profile
	XPToNextLevel int `json:"xp_to_next_level"`
}
