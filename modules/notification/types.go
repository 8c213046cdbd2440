package notification

import (
	"context"
	"time"
)

// SendNotificationRequest is the request for sending a notification.
type SendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ListNotificationsRequest is the request for listing a user's notifications.
type ListNotificationsRequest struct {
	UserID     string `json:"user_id"`
	UnreadOnly bool   `json:"unread_only"`
	Skip       int    `json:"skip"`
	Limit      int    `json:"limit"`
}

// MarkReadRequest is the request for marking a notification as read.
type MarkReadRequest struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
}

// MarkReadResponse is the response for marking a notification as read.
type MarkReadResponse struct {
	Marked bool `json:"marked"`
}

// NotificationResponse is the response for a single notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotificationsResponse is the response for listing notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
}

// NotificationPort is the contract driving adapters use to reach the
// notification module.
type NotificationPort interface {
	Send(ctx context.Context, req *SendNotificationRequest) (*NotificationResponse, error)
	List(ctx context.Context, req *ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}
