package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	ProjectID *string   `json:"project_id,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted when task fields change. Changes maps field
// name to the value it now holds. AssignedTo carries the current assignee
// so consumers can route the notification.
type TaskUpdatedEvent struct {
	TaskID     string            `json:"task_id"`
	Title      string            `json:"title"`
	Changes    map[string]string `json:"changes"`
	AssignedTo *string           `json:"assigned_to,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task updates.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskAssignedEvent is emitted when a task is assigned to a user.
type TaskAssignedEvent struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	AssignedTo string    `json:"assigned_to"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskAssignedV1 is the typed event definition for task assignment.
// Subject: events.task.v1.task-assigned
var TaskAssignedV1 = helper.EventDefinition[TaskAssignedEvent](
	"task", "TaskAssigned", "v1",
)

// ProjectCreatedEvent is emitted when a new project is created.
type ProjectCreatedEvent struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectCreatedV1 is the typed event definition for project creation.
// Subject: events.task.v1.project-created
var ProjectCreatedV1 = helper.EventDefinition[ProjectCreatedEvent](
	"task", "ProjectCreated", "v1",
)
