package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gorillaDoAPI/internal/types/notification"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	db         *pgxpool.Pool
	dispatcher *NotificationDispatcher
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	s := &NotificationService{db: db}
	s.dispatcher = NewNotificationDispatcher(s)
	return s
}

// SetPushProvider injects the FCM client from main.go.
func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

// Stop drains the dispatcher. Called on shutdown.
func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

// CreateNotification persists the notification and queues it for delivery.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	notif := &notification.Notification{
		ID:     uuid.New(),
		UserID: req.UserID,
		Type:   req.Type,
		Title:  req.Title,
		Body:   req.Body,
		Data:   req.Data,
		Status: notification.StatusPending,
	}

	query := `
	INSERT INTO notifications (id, user_id, type, title, body, data, status, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW())
	RETURNING created_at
	`

	err := s.db.QueryRow(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Body, notif.Data, notif.Status,
	).Scan(&notif.CreatedAt)
	if err != nil {
		return nil, storeError("create notification", err)
	}

	prefs, err := s.GetUserPreferencesByUUID(ctx, req.UserID)
	if err != nil {
		log.Printf("Could not load preferences for %s, skipping dispatch: %v", req.UserID, err)
		return notif, nil
	}

	s.dispatcher.Dispatch(ctx, notif, prefs)
	return notif, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `
	SELECT id, user_id, type, title, body, data, status, is_read, created_at
	FROM notifications
	WHERE user_id = $1 AND ($2 = false OR is_read = false)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`

	rows, err := s.db.Query(ctx, query, userID, unreadOnly, pageSize, offset)
	if err != nil {
		return nil, storeError("list notifications", err)
	}
	defer rows.Close()

	var notifs []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Data, &n.Status, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}

	resp := &notification.NotificationListResponse{
		Notifications: notifs,
		Page:          page,
		PageSize:      pageSize,
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_read = false)
		FROM notifications WHERE user_id = $1`, userID,
	).Scan(&resp.Total, &resp.UnreadCount)
	if err != nil {
		return nil, storeError("count notifications", err)
	}

	return resp, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, clerkID string) (int, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID,
	).Scan(&count)
	if err != nil {
		return 0, storeError("count unread", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID, clerkID string) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return storeError("mark as read", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, clerkID string) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return storeError("mark all as read", err)
	}
	return nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, notificationID uuid.UUID, clerkID string) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return storeError("delete notification", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) GetUserPreferences(ctx context.Context, clerkID string) (*notification.NotificationPreferences, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return s.GetUserPreferencesByUUID(ctx, userID)
}

func (s *NotificationService) GetUserPreferencesByUUID(ctx context.Context, userID uuid.UUID) (*notification.NotificationPreferences, error) {
	prefs := &notification.NotificationPreferences{UserID: userID}

	err := s.db.QueryRow(ctx, `
		SELECT push_enabled, updated_at FROM notification_preferences WHERE user_id = $1`,
		userID,
	).Scan(&prefs.PushEnabled, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.createDefaultPreferences(ctx, userID)
		}
		return nil, storeError("get preferences", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT token, platform FROM notification_devices WHERE user_id = $1`, userID)
	if err != nil {
		return nil, storeError("get device tokens", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		prefs.DeviceTokens = append(prefs.DeviceTokens, t)
	}

	return prefs, nil
}

func (s *NotificationService) UpdateUserPreferences(ctx context.Context, clerkID string, req *notification.UpdatePreferencesRequest) (*notification.NotificationPreferences, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if req.PushEnabled != nil {
		_, err = s.db.Exec(ctx, `
			INSERT INTO notification_preferences (user_id, push_enabled, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO UPDATE SET push_enabled = $2, updated_at = NOW()`,
			userID, *req.PushEnabled)
		if err != nil {
			return nil, storeError("update preferences", err)
		}
	}

	return s.GetUserPreferencesByUUID(ctx, userID)
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	if req.Token == "" {
		return errors.New("device token is required")
	}
	if req.Platform != "ios" && req.Platform != "android" {
		return errors.New("platform must be ios or android")
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO notification_devices (user_id, token, platform, registered_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3, registered_at = NOW()`,
		userID, req.Token, req.Platform)
	if err != nil {
		return storeError("register device", err)
	}
	return nil
}

func (s *NotificationService) createDefaultPreferences(ctx context.Context, userID uuid.UUID) (*notification.NotificationPreferences, error) {
	prefs := &notification.NotificationPreferences{UserID: userID, PushEnabled: true}

	err := s.db.QueryRow(ctx, `
		INSERT INTO notification_preferences (user_id, push_enabled, updated_at)
		VALUES ($1, true, NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = notification_preferences.updated_at
		RETURNING updated_at`,
		userID,
	).Scan(&prefs.UpdatedAt)
	if err != nil {
		return nil, storeError("create default preferences", err)
	}
	return prefs, nil
}

func (s *NotificationService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT user_id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrProfileNotFound
		}
		return uuid.Nil, storeError("resolve user", err)
	}
	return userID, nil
}

func (s *NotificationService) markAsSent(ctx context.Context, notificationID uuid.UUID) {
	if _, err := s.db.Exec(ctx,
		`UPDATE notifications SET status = 'sent' WHERE id = $1`, notificationID); err != nil {
		log.Printf("Failed to mark notification %s as sent: %v", notificationID, err)
	}
}

func (s *NotificationService) markAsFailed(ctx context.Context, notificationID uuid.UUID, cause error) {
	log.Printf("Notification %s delivery failed: %v", notificationID, cause)
	if _, err := s.db.Exec(ctx,
		`UPDATE notifications SET status = 'failed' WHERE id = $1`, notificationID); err != nil {
		log.Printf("Failed to mark notification %s as failed: %v", notificationID, err)
	}
}
