package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the TaskPort interface.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func call[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*Resp, error) {
	var resp Resp
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", service, err)
	}
	return &resp, nil
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	return call[CreateTaskRequest, TaskResponse](ctx, a.container, "create-task", req)
}

// GetTask retrieves a task by ID via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	req := GetTaskRequest{TaskID: taskID}
	return call[GetTaskRequest, TaskResponse](ctx, a.container, "get-task", &req)
}

// UpdateTask updates a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	return call[UpdateTaskRequest, TaskResponse](ctx, a.container, "update-task", req)
}

// AssignTask assigns a task to a user via the assign-task service.
func (a *taskAdapter) AssignTask(ctx context.Context, taskID, userID string) (*TaskResponse, error) {
	req := AssignTaskRequest{TaskID: taskID, UserID: userID}
	return call[AssignTaskRequest, TaskResponse](ctx, a.container, "assign-task", &req)
}

// UnassignTask clears a task's assignee via the unassign-task service.
func (a *taskAdapter) UnassignTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	req := UnassignTaskRequest{TaskID: taskID}
	return call[UnassignTaskRequest, TaskResponse](ctx, a.container, "unassign-task", &req)
}

// ListTasksByProject lists a project's tasks via the list-tasks-by-project service.
func (a *taskAdapter) ListTasksByProject(ctx context.Context, projectID string, skip, limit int) (*ListTasksResponse, error) {
	req := ListTasksByProjectRequest{ProjectID: projectID, Skip: skip, Limit: limit}
	return call[ListTasksByProjectRequest, ListTasksResponse](ctx, a.container, "list-tasks-by-project", &req)
}

// ListTasksByUser lists a user's assigned tasks via the list-tasks-by-user service.
func (a *taskAdapter) ListTasksByUser(ctx context.Context, userID string, skip, limit int) (*ListTasksResponse, error) {
	req := ListTasksByUserRequest{UserID: userID, Skip: skip, Limit: limit}
	return call[ListTasksByUserRequest, ListTasksResponse](ctx, a.container, "list-tasks-by-user", &req)
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	req := DeleteTaskRequest{TaskID: taskID}
	resp, err := call[DeleteTaskRequest, DeleteTaskResponse](ctx, a.container, "delete-task", &req)
	if err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

// CreateProject creates a new project via the create-project service.
func (a *taskAdapter) CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error) {
	return call[CreateProjectRequest, ProjectResponse](ctx, a.container, "create-project", req)
}

// GetProject retrieves a project by ID via the get-project service.
func (a *taskAdapter) GetProject(ctx context.Context, projectID string) (*ProjectResponse, error) {
	req := GetProjectRequest{ProjectID: projectID}
	return call[GetProjectRequest, ProjectResponse](ctx, a.container, "get-project", &req)
}

// UpdateProject updates a project via the update-project service.
func (a *taskAdapter) UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*ProjectResponse, error) {
	return call[UpdateProjectRequest, ProjectResponse](ctx, a.container, "update-project", req)
}

// ListProjectsByUser lists a user's projects via the list-projects-by-user service.
func (a *taskAdapter) ListProjectsByUser(ctx context.Context, userID string) (*ListProjectsResponse, error) {
	req := ListProjectsByUserRequest{UserID: userID}
	return call[ListProjectsByUserRequest, ListProjectsResponse](ctx, a.container, "list-projects-by-user", &req)
}
