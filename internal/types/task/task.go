package task

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Type string

const (
	// TypeDaily recurs every calendar day and drives streaks and boss damage.
	TypeDaily Type = "daily"
	// TypeTimeframe is a one-time task with an optional deadline.
	TypeTimeframe Type = "timeframe"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeDaily, TypeTimeframe:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	TaskType    Type       `json:"task_type" db:"task_type"`
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Completion is an append-only record linking a task to the day it was
// completed. XPEarned is snapshotted so later difficulty changes never
// rewrite history.
type Completion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TaskID      uuid.UUID `json:"task_id" db:"task_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CompletedOn time.Time `json:"completed_on" db:"completed_on"`
	XPEarned    int       `json:"xp_earned" db:"xp_earned"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	TaskType    string `json:"task_type"`
	Deadline    string `json:"deadline,omitempty"` // YYYY-MM-DD
}

type TaskWithStatus struct {
	Task
	CompletedToday bool `json:"completed_today"`
}
