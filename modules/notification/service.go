package notification

import (
	"context"
	"fmt"
	"log"

	domain "github.com/example/taskboard/domain/notification"
	"github.com/example/taskboard/modules/push"
)

// Service persists notifications and hands them to the push hub for live
// delivery. The stored row is the source of truth; the push is best-effort.
type Service struct {
	repo   *Repository
	sender push.Sender
}

// NewService creates a notification service. sender may be nil, in which
// case notifications are stored without live delivery.
func NewService(repo *Repository, sender push.Sender) *Service {
	return &Service{
		repo:   repo,
		sender: sender,
	}
}

// Send stores a notification and pushes it to the user's live connections.
func (s *Service) Send(ctx context.Context, userID, title, message string, notificationType domain.Type) (*domain.Notification, error) {
	n, err := domain.New(userID, title, message, notificationType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.sender != nil {
		s.sender.Send(userID, n)
		if !s.sender.IsOnline(userID) {
			log.Printf("[notification] User %s offline, notification %s stored only", userID, n.ID)
		}
	}

	return n, nil
}

// List returns a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*domain.Notification, error) {
	return s.repo.FindByUser(ctx, userID, unreadOnly, skip, limit)
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// Count returns the user's total notification count, restricted to unread
// ones when unreadOnly is set.
func (s *Service) Count(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	return s.repo.CountByUser(ctx, userID, unreadOnly)
}

// UnreadCount returns the number of unread notifications for a user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountByUser(ctx, userID, true)
}

// notifyAssignment formats and sends the task-assigned notification.
func (s *Service) notifyAssignment(ctx context.Context, userID, taskID, title string) error {
	_, err := s.Send(ctx, userID,
		"Task assigned to you",
		fmt.Sprintf("You have been assigned task '%s'", title),
		domain.TypeTaskAssigned,
	)
	if err != nil {
		return fmt.Errorf("failed to notify assignment of task %s: %w", taskID, err)
	}
	return nil
}

// notifyTaskUpdated formats and sends the task-updated notification to the
// current assignee. A status change to done is reported as a completion.
func (s *Service) notifyTaskUpdated(ctx context.Context, userID, taskID, title string, changes map[string]string) error {
	header := "Task updated"
	body := fmt.Sprintf("Task '%s' was updated", title)
	notificationType := domain.TypeTaskUpdated
	if changes["status"] == "done" {
		header = "Task completed"
		body = fmt.Sprintf("Task '%s' was marked done", title)
		notificationType = domain.TypeTaskCompleted
	}

	_, err := s.Send(ctx, userID, header, body, notificationType)
	if err != nil {
		return fmt.Errorf("failed to notify update of task %s: %w", taskID, err)
	}
	return nil
}

// notifyProjectCreated formats and sends the project-created notification.
func (s *Service) notifyProjectCreated(ctx context.Context, userID, projectID, name string) error {
	_, err := s.Send(ctx, userID,
		"Project created",
		fmt.Sprintf("Project '%s' was created", name),
		domain.TypeProjectCreated,
	)
	if err != nil {
		return fmt.Errorf("failed to notify creation of project %s: %w", projectID, err)
	}
	return nil
}
