package notification

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies what happened on the board.
type Type string

const (
	TypeTaskAssigned   Type = "task_assigned"
	TypeTaskUpdated    Type = "task_updated"
	TypeTaskCompleted  Type = "task_completed"
	TypeProjectCreated Type = "project_created"
	TypeWelcome        Type = "welcome"
)

// Valid reports whether the type is one of the known values.
func (t Type) Valid() bool {
	switch t {
	case TypeTaskAssigned, TypeTaskUpdated, TypeTaskCompleted, TypeProjectCreated, TypeWelcome:
		return true
	}
	return false
}

var (
	// ErrTitleRequired is returned when a notification title trims to empty.
	ErrTitleRequired = errors.New("notification title cannot be empty")

	// ErrMessageRequired is returned when a notification message trims to empty.
	ErrMessageRequired = errors.New("notification message cannot be empty")

	// ErrInvalidType is returned for a type outside the known set.
	ErrInvalidType = errors.New("invalid notification type")
)

// Notification is a per-user delivery record. Delivery to a live connection
// is best-effort; the stored row is the source of truth.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"size:2000;not null" json:"message"`
	Type      Type      `gorm:"size:30;not null" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

// TableName returns the table name for the Notification entity.
func (Notification) TableName() string {
	return "notifications"
}

// New builds a valid notification. Title and message are trimmed and must
// be non-empty.
func New(userID, title, message string, notificationType Type) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if !notificationType.Valid() {
		return nil, ErrInvalidType
	}

	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkRead marks the notification as read.
func (n *Notification) MarkRead() {
	n.Read = true
}

// MarkUnread marks the notification as unread.
func (n *Notification) MarkUnread() {
	n.Read = false
}
