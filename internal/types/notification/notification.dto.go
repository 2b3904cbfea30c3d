package notification

import "github.com/google/uuid"

type CreateNotificationRequest struct {
	UserID uuid.UUID        `json:"user_id"`
	Type   NotificationType `json:"type"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	Data   map[string]any   `json:"data,omitempty"`
}

type NotificationListResponse struct {
	Notifications []*Notification `json:"notifications"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	UnreadCount   int             `json:"unread_count"`
}

type UpdatePreferencesRequest struct {
	PushEnabled *bool `json:"push_enabled,omitempty"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" | "android"
}
