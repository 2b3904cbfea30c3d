package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeLevelUp         NotificationType = "level_up"
	TypeStreakMilestone NotificationType = "streak_milestone"
	TypeStreakRisk      NotificationType = "streak_risk"
	TypeBossVictory     NotificationType = "boss_victory"
	TypeBossDefeat      NotificationType = "boss_defeat"
	TypeBadgeEarned     NotificationType = "badge_earned"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	UserID    uuid.UUID          `json:"user_id" db:"user_id"`
	Type      NotificationType   `json:"type" db:"type"`
	Title     string             `json:"title" db:"title"`
	Body      string             `json:"body" db:"body"`
	Data      map[string]any     `json:"data" db:"data"`
	Status    NotificationStatus `json:"status" db:"status"`
	IsRead    bool               `json:"is_read" db:"is_read"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token    string `json:"token" db:"token"`
	Platform string `json:"platform" db:"platform"`
}

type NotificationPreferences struct {
	UserID       uuid.UUID     `json:"user_id" db:"user_id"`
	PushEnabled  bool          `json:"push_enabled" db:"push_enabled"`
	DeviceTokens []DeviceToken `json:"device_tokens" db:"device_tokens"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}
