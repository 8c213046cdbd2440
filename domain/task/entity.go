package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is the core domain entity of the board. Timestamps are owned by the
// entity: CreatedAt is set once at construction and UpdatedAt stays nil
// until the first mutating operation, so GORM's automatic stamping is
// disabled on both fields.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"size:2000" json:"description,omitempty"`
	Status      Status     `gorm:"size:20;not null" json:"status"`
	Priority    Priority   `gorm:"size:20;not null" json:"priority"`
	ProjectID   *string    `gorm:"size:36;index" json:"project_id,omitempty"`
	AssignedTo  *string    `gorm:"size:36;index" json:"assigned_to,omitempty"`
	CreatedBy   string     `gorm:"size:36;not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// TaskOption configures optional fields at construction time.
type TaskOption func(*Task)

// WithID sets an explicit identifier instead of a generated one.
func WithID(id string) TaskOption {
	return func(t *Task) { t.ID = id }
}

// WithDescription sets the initial description.
func WithDescription(description string) TaskOption {
	return func(t *Task) { t.Description = &description }
}

// WithStatus sets the initial status.
func WithStatus(status Status) TaskOption {
	return func(t *Task) { t.Status = status }
}

// WithPriority sets the initial priority.
func WithPriority(priority Priority) TaskOption {
	return func(t *Task) { t.Priority = priority }
}

// WithProject links the task to a project at construction.
func WithProject(projectID string) TaskOption {
	return func(t *Task) { t.ProjectID = &projectID }
}

// WithAssignee assigns the task at construction.
func WithAssignee(userID string) TaskOption {
	return func(t *Task) { t.AssignedTo = &userID }
}

// WithCreatedAt overrides the construction timestamp.
func WithCreatedAt(at time.Time) TaskOption {
	return func(t *Task) { t.CreatedAt = at }
}

// NewTask builds a valid task. The title is trimmed and must be non-empty;
// status defaults to todo and priority to medium.
func NewTask(title, createdBy string, opts ...TaskOption) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	t := &Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if !t.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	return t, nil
}

// touch stamps the modification timestamp.
func (t *Task) touch() {
	now := time.Now().UTC()
	t.UpdatedAt = &now
}

// UpdateTitle replaces the title. The prior title is kept when the new one
// trims to empty.
func (t *Task) UpdateTitle(newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return ErrTitleRequired
	}
	t.Title = newTitle
	t.touch()
	return nil
}

// UpdateDescription replaces the description. A nil value clears it.
func (t *Task) UpdateDescription(newDescription *string) {
	t.Description = newDescription
	t.touch()
}

// ChangeStatus sets the status unconditionally within the known set. Any
// status is reachable from any status; transition guards belong to the
// caller's TransitionPolicy.
func (t *Task) ChangeStatus(newStatus Status) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	t.Status = newStatus
	t.touch()
	return nil
}

// ChangePriority sets the priority unconditionally within the known set.
func (t *Task) ChangePriority(newPriority Priority) error {
	if !newPriority.Valid() {
		return ErrInvalidPriority
	}
	t.Priority = newPriority
	t.touch()
	return nil
}

// AssignTo assigns the task to a user.
func (t *Task) AssignTo(userID string) {
	t.AssignedTo = &userID
	t.touch()
}

// Unassign clears the assignee.
func (t *Task) Unassign() {
	t.AssignedTo = nil
	t.touch()
}

// RelinkProject moves the task to another project. A nil value unlinks it.
// Re-linking flows through the same mutator path as every other field.
func (t *Task) RelinkProject(projectID *string) {
	t.ProjectID = projectID
	t.touch()
}
