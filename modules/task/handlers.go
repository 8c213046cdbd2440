package task

import (
	"context"
	"log"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/events"
	"github.com/go-monolith/mono"
)

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.CreateTask(ctx, &req)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			ProjectID: t.ProjectID,
			CreatedBy: t.CreatedBy,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.GetTask(ctx, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.UpdateTask(ctx, &req)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		changes := make(map[string]string)
		if req.Title != nil {
			changes["title"] = t.Title
		}
		if req.Description.Set {
			changes["description"] = derefOr(t.Description, "")
		}
		if req.Status != nil {
			changes["status"] = string(t.Status)
		}
		if req.Priority != nil {
			changes["priority"] = string(t.Priority)
		}
		if req.ProjectID.Set {
			changes["project_id"] = derefOr(t.ProjectID, "")
		}
		event := events.TaskUpdatedEvent{
			TaskID:     t.ID,
			Title:      t.Title,
			Changes:    changes,
			AssignedTo: t.AssignedTo,
			UpdatedAt:  updatedOrCreated(t),
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// assignTask handles the assign-task service request.
func (m *TaskModule) assignTask(ctx context.Context, req AssignTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.AssignTask(ctx, req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskAssignedEvent{
			TaskID:     t.ID,
			Title:      t.Title,
			AssignedTo: req.UserID,
			AssignedAt: updatedOrCreated(t),
		}
		if err := events.TaskAssignedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskAssigned event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// unassignTask handles the unassign-task service request.
func (m *TaskModule) unassignTask(ctx context.Context, req UnassignTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.UnassignTask(ctx, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// listTasksByProject handles the list-tasks-by-project service request.
func (m *TaskModule) listTasksByProject(ctx context.Context, req ListTasksByProjectRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListTasksByProject(ctx, req.ProjectID, req.Skip, req.Limit)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return toListTasksResponse(tasks), nil
}

// listTasksByUser handles the list-tasks-by-user service request.
func (m *TaskModule) listTasksByUser(ctx context.Context, req ListTasksByUserRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListTasksByUser(ctx, req.UserID, req.Skip, req.Limit)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return toListTasksResponse(tasks), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	deleted, err := m.service.DeleteTask(ctx, req.TaskID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: deleted}, nil
}

// createProject handles the create-project service request.
func (m *TaskModule) createProject(ctx context.Context, req CreateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.CreateProject(ctx, &req)
	if err != nil {
		return ProjectResponse{}, err
	}

	if m.eventBus != nil {
		event := events.ProjectCreatedEvent{
			ProjectID: p.ID,
			Name:      p.Name,
			CreatedBy: p.CreatedBy,
			CreatedAt: p.CreatedAt,
		}
		if err := events.ProjectCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish ProjectCreated event for project %s: %v", p.ID, err)
		}
	}

	return toProjectResponse(p), nil
}

// getProject handles the get-project service request.
func (m *TaskModule) getProject(ctx context.Context, req GetProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.GetProject(ctx, req.ProjectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

// updateProject handles the update-project service request.
func (m *TaskModule) updateProject(ctx context.Context, req UpdateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.UpdateProject(ctx, &req)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

// listProjectsByUser handles the list-projects-by-user service request.
func (m *TaskModule) listProjectsByUser(ctx context.Context, req ListProjectsByUserRequest, _ *mono.Msg) (ListProjectsResponse, error) {
	projects, err := m.service.ListProjectsByUser(ctx, req.UserID)
	if err != nil {
		return ListProjectsResponse{}, err
	}

	resp := ListProjectsResponse{
		Projects: make([]ProjectResponse, 0, len(projects)),
		Total:    len(projects),
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(p))
	}
	return resp, nil
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// toProjectResponse converts a domain Project to a ProjectResponse.
func toProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListTasksResponse(tasks []*domain.Task) ListTasksResponse {
	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}
	return resp
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func updatedOrCreated(t *domain.Task) time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}
