package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/task"
	"github.com/gofiber/fiber/v2"
)

// fakeTaskPort implements task.TaskPort with overridable funcs.
type fakeTaskPort struct {
	createTaskFunc func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error)
	getTaskFunc    func(ctx context.Context, taskID string) (*task.TaskResponse, error)
	listByUserFunc func(ctx context.Context, userID string, skip, limit int) (*task.ListTasksResponse, error)
}

func (f *fakeTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	if f.createTaskFunc != nil {
		return f.createTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) GetTask(ctx context.Context, taskID string) (*task.TaskResponse, error) {
	if f.getTaskFunc != nil {
		return f.getTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UpdateTask(context.Context, *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) AssignTask(context.Context, string, string) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UnassignTask(context.Context, string) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListTasksByProject(context.Context, string, int, int) (*task.ListTasksResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListTasksByUser(ctx context.Context, userID string, skip, limit int) (*task.ListTasksResponse, error) {
	if f.listByUserFunc != nil {
		return f.listByUserFunc(ctx, userID, skip, limit)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) DeleteTask(context.Context, string) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeTaskPort) CreateProject(context.Context, *task.CreateProjectRequest) (*task.ProjectResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) GetProject(context.Context, string) (*task.ProjectResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UpdateProject(context.Context, *task.UpdateProjectRequest) (*task.ProjectResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListProjectsByUser(context.Context, string) (*task.ListProjectsResponse, error) {
	return nil, errors.New("not implemented")
}

// fakeNotifyPort implements notification.NotificationPort.
type fakeNotifyPort struct{}

func (f *fakeNotifyPort) Send(context.Context, *notification.SendNotificationRequest) (*notification.NotificationResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeNotifyPort) List(context.Context, *notification.ListNotificationsRequest) (*notification.ListNotificationsResponse, error) {
	return &notification.ListNotificationsResponse{Notifications: []notification.NotificationResponse{}}, nil
}

func (f *fakeNotifyPort) MarkRead(context.Context, string, string) error {
	return errors.New("notification not found")
}

// newTestApp wires handlers behind the auth middleware, mirroring the
// module's protected route group.
func newTestApp(taskPort task.TaskPort) *fiber.App {
	authPort := validAuthPort("user-1")
	handlers := NewHandlers(nil, authPort, taskPort, &fakeNotifyPort{})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	protected := app.Group("/api/v1")
	protected.Use(AuthMiddleware(authPort))
	protected.Post("/tasks", handlers.CreateTask)
	protected.Get("/tasks", handlers.ListMyTasks)
	protected.Get("/tasks/:id", handlers.GetTask)
	protected.Post("/notifications/:id/read", handlers.MarkNotificationRead)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp, string(data)
}

func TestCreateTask(t *testing.T) {
	port := &fakeTaskPort{
		createTaskFunc: func(_ context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
			if req.CreatedBy != "user-1" {
				t.Errorf("CreatedBy = %v, want user-1", req.CreatedBy)
			}
			return &task.TaskResponse{
				ID:        "task-1",
				Title:     req.Title,
				Status:    "todo",
				Priority:  "medium",
				CreatedBy: req.CreatedBy,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	app := newTestApp(port)

	resp, body := doRequest(t, app, "POST", "/api/v1/tasks", `{"title":"Write release notes"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %v, want %v (body %s)", resp.StatusCode, http.StatusCreated, body)
	}
	if !strings.Contains(body, `"task-1"`) {
		t.Errorf("body = %v, want task id", body)
	}
	if strings.Contains(body, "updated_at") {
		t.Errorf("fresh task should omit updated_at, got %v", body)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	app := newTestApp(&fakeTaskPort{})

	resp, body := doRequest(t, app, "POST", "/api/v1/tasks", `{"title":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %v, want %v (body %s)", resp.StatusCode, http.StatusBadRequest, body)
	}
}

func TestCreateTask_DomainError(t *testing.T) {
	port := &fakeTaskPort{
		createTaskFunc: func(context.Context, *task.CreateTaskRequest) (*task.TaskResponse, error) {
			return nil, errors.New("create-task service call failed: invalid task priority")
		},
	}
	app := newTestApp(port)

	resp, body := doRequest(t, app, "POST", "/api/v1/tasks", `{"title":"x","priority":"sometime"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusBadRequest)
	}
	if !strings.Contains(body, "invalid task priority") {
		t.Errorf("body = %v, want unwrapped cause", body)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	port := &fakeTaskPort{
		getTaskFunc: func(context.Context, string) (*task.TaskResponse, error) {
			return nil, errors.New("get-task service call failed: task not found")
		},
	}
	app := newTestApp(port)

	resp, body := doRequest(t, app, "GET", "/api/v1/tasks/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusNotFound)
	}
	if !strings.Contains(body, "not_found") {
		t.Errorf("body = %v, want not_found error code", body)
	}
}

func TestListMyTasks_PaginationValidation(t *testing.T) {
	called := false
	port := &fakeTaskPort{
		listByUserFunc: func(_ context.Context, _ string, skip, limit int) (*task.ListTasksResponse, error) {
			called = true
			return &task.ListTasksResponse{Tasks: []task.TaskResponse{}}, nil
		},
	}
	app := newTestApp(port)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"defaults", "", http.StatusOK},
		{"explicit bounds", "?skip=0&limit=100", http.StatusOK},
		{"negative skip", "?skip=-1", http.StatusBadRequest},
		{"zero limit", "?limit=0", http.StatusBadRequest},
		{"limit too large", "?limit=101", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			resp, body := doRequest(t, app, "GET", "/api/v1/tasks"+tt.query, "")
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %v, want %v (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantStatus != http.StatusOK && called {
				t.Error("port should not be called on invalid pagination")
			}
		})
	}
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	app := newTestApp(&fakeTaskPort{})

	resp, _ := doRequest(t, app, "POST", "/api/v1/notifications/missing/read", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusNotFound)
	}
}
