package notification

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskboard/domain/notification"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification does not exist
// or belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// Repository handles notification persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new notification.
func (r *Repository) Create(ctx context.Context, n *domain.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// FindByUser returns a user's notifications, newest first. With unreadOnly
// set, read notifications are filtered out.
func (r *Repository) FindByUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*domain.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []*domain.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. The user ID scopes the update so
// one user cannot mark another's notifications.
func (r *Repository) MarkRead(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CountByUser returns how many notifications the user has, optionally
// restricted to unread ones. Listing is paginated, so totals come from
// here rather than from the page size.
func (r *Repository) CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
