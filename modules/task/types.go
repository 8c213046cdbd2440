package task

import (
	"context"
	"encoding/json"
	"time"
)

// Optional distinguishes an absent update field from an explicit null.
// Unset values carry the omitzero tag so they disappear from the wire;
// an explicit null arrives with Set true and a nil Value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some wraps a concrete value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null is an explicitly-null value, distinct from unset.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsZero reports whether the field was never supplied. Used by omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON is only invoked for keys present in the payload, so its
// mere execution marks the field as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON emits null for an explicitly-null value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	CreatedBy   string  `json:"created_by"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task. Absent fields are
// left untouched. Description and ProjectID are nullable, so they use the
// tri-state Optional: absent means keep, null means clear.
type UpdateTaskRequest struct {
	TaskID      string           `json:"task_id"`
	Title       *string          `json:"title,omitempty"`
	Description Optional[string] `json:"description,omitzero"`
	Status      *string          `json:"status,omitempty"`
	Priority    *string          `json:"priority,omitempty"`
	ProjectID   Optional[string] `json:"project_id,omitzero"`
}

// AssignTaskRequest is the request for assigning a task to a user.
type AssignTaskRequest struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}

// UnassignTaskRequest is the request for clearing a task's assignee.
type UnassignTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ListTasksByProjectRequest is the request for listing a project's tasks.
type ListTasksByProjectRequest struct {
	ProjectID string `json:"project_id"`
	Skip      int    `json:"skip"`
	Limit     int    `json:"limit"`
}

// ListTasksByUserRequest is the request for listing a user's assigned tasks.
type ListTasksByUserRequest struct {
	UserID string `json:"user_id"`
	Skip   int    `json:"skip"`
	Limit  int    `json:"limit"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   *string    `json:"project_id,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// CreateProjectRequest is the request for creating a project.
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedBy   string  `json:"created_by"`
}

// GetProjectRequest is the request for getting a project.
type GetProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// UpdateProjectRequest is the request for updating a project. Absent fields
// are left untouched; a null description clears it.
type UpdateProjectRequest struct {
	ProjectID   string           `json:"project_id"`
	Name        *string          `json:"name,omitempty"`
	Description Optional[string] `json:"description,omitzero"`
}

// ListProjectsByUserRequest is the request for listing a user's projects.
type ListProjectsByUserRequest struct {
	UserID string `json:"user_id"`
}

// ProjectResponse is the response for a single project.
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ListProjectsResponse is the response for listing projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// TaskPort is the contract driving adapters (the HTTP API) use to reach the
// task module.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	AssignTask(ctx context.Context, taskID, userID string) (*TaskResponse, error)
	UnassignTask(ctx context.Context, taskID string) (*TaskResponse, error)
	ListTasksByProject(ctx context.Context, projectID string, skip, limit int) (*ListTasksResponse, error)
	ListTasksByUser(ctx context.Context, userID string, skip, limit int) (*ListTasksResponse, error)
	DeleteTask(ctx context.Context, taskID string) (bool, error)

	CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error)
	GetProject(ctx context.Context, projectID string) (*ProjectResponse, error)
	UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*ProjectResponse, error)
	ListProjectsByUser(ctx context.Context, userID string) (*ListProjectsResponse, error)
}
