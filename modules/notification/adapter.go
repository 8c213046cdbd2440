package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// notificationAdapter wraps ServiceContainer for type-safe cross-module
// communication. It implements the NotificationPort interface.
type notificationAdapter struct {
	container mono.ServiceContainer
}

// NewNotificationAdapter creates a new adapter for notification services.
func NewNotificationAdapter(container mono.ServiceContainer) NotificationPort {
	if container == nil {
		panic("notification adapter requires non-nil ServiceContainer")
	}
	return &notificationAdapter{container: container}
}

// Send sends a notification via the send service.
func (a *notificationAdapter) Send(ctx context.Context, req *SendNotificationRequest) (*NotificationResponse, error) {
	var resp NotificationResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"send",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("send service call failed: %w", err)
	}
	return &resp, nil
}

// List lists a user's notifications via the list service.
func (a *notificationAdapter) List(ctx context.Context, req *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	var resp ListNotificationsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// MarkRead marks a notification as read via the mark-read service.
func (a *notificationAdapter) MarkRead(ctx context.Context, notificationID, userID string) error {
	req := MarkReadRequest{NotificationID: notificationID, UserID: userID}
	var resp MarkReadResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"mark-read",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("mark-read service call failed: %w", err)
	}
	return nil
}
