package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gorillaDoAPI/internal/types/notification"
)

// NotificationCreator is the one method the triggers below need from the
// notification service; taking the interface keeps utils out of the service
// package's import graph.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// Fire-and-forget: progression outcomes are already committed when these run,
// so a failed notification is only worth a log line.

func NotifyLevelUp(notifier NotificationCreator, userID uuid.UUID, level int) {
	if notifier == nil {
		return
	}
	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeLevelUp,
		Title:  "Level Up!",
		Body:   fmt.Sprintf("Your gorilla reached level %d. Keep it going!", level),
		Data:   map[string]any{"level": level},
	}
	if _, err := notifier.CreateNotification(context.Background(), req); err != nil {
		log.Printf("Failed to create level-up notification for %s: %v", userID, err)
	}
}

func NotifyStreakMilestone(notifier NotificationCreator, userID uuid.UUID, streak int) {
	if notifier == nil {
		return
	}
	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeStreakMilestone,
		Title:  fmt.Sprintf("%d-day streak!", streak),
		Body:   fmt.Sprintf("You've completed daily tasks %d days in a row.", streak),
		Data:   map[string]any{"streak": streak},
	}
	if _, err := notifier.CreateNotification(context.Background(), req); err != nil {
		log.Printf("Failed to create streak notification for %s: %v", userID, err)
	}
}

func NotifyBossOutcome(notifier NotificationCreator, userID uuid.UUID, bossName string, won bool) {
	if notifier == nil {
		return
	}
	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeBossVictory,
		Title:  "Victory!",
		Body:   fmt.Sprintf("You defeated %s!", bossName),
		Data:   map[string]any{"boss_name": bossName, "won": won},
	}
	if !won {
		req.Type = notification.TypeBossDefeat
		req.Title = "The boss escaped"
		req.Body = fmt.Sprintf("%s outlasted you this time. Rebuild your streak and try again.", bossName)
	}
	if _, err := notifier.CreateNotification(context.Background(), req); err != nil {
		log.Printf("Failed to create boss notification for %s: %v", userID, err)
	}
}

func NotifyBadgeEarned(notifier NotificationCreator, userID uuid.UUID, badgeName string) {
	if notifier == nil {
		return
	}
	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeBadgeEarned,
		Title:  "New badge earned",
		Body:   fmt.Sprintf("You earned the %q badge.", badgeName),
		Data:   map[string]any{"badge": badgeName},
	}
	if _, err := notifier.CreateNotification(context.Background(), req); err != nil {
		log.Printf("Failed to create badge notification for %s: %v", userID, err)
	}
}
