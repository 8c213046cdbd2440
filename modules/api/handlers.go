package api

import (
	"encoding/json"
	"log"
	"strings"

	domain "github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskPort      task.TaskPort
	notifyPort    notification.NotificationPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, authAdapter auth.AuthPort, taskPort task.TaskPort, notifyPort notification.NotificationPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		authAdapter:   authAdapter,
		taskPort:      taskPort,
		notifyPort:    notifyPort,
	}
}

// claims extracts the authenticated caller identity set by AuthMiddleware.
func (h *Handlers) claims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// parsePagination reads and validates skip/limit query parameters.
// skip must be non-negative; limit must be between 1 and 100.
func parsePagination(c *fiber.Ctx) (int, int, error) {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	if skip < 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "skip must be non-negative")
	}
	if limit < 1 || limit > 100 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
	}
	return skip, limit, nil
}

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}
	var resp auth.RegisterResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Email:     resp.Email,
		FullName:  resp.FullName,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.TokenResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.TokenResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "refresh-token",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Profile handles GET /api/v1/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(UserResponse{
		ID:        user.ID,
		Email:     user.Email.String(),
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	})
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest(c, "Title is required")
	}

	resp, err := h.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Priority:    req.Priority,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.taskPort.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// UpdateTask handles PUT /api/v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	deleted, err := h.taskPort.DeleteTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignTask handles POST /api/v1/tasks/:id/assign.
func (h *Handlers) AssignTask(c *fiber.Ctx) error {
	var req AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		return badRequest(c, "User ID is required")
	}

	resp, err := h.taskPort.AssignTask(c.UserContext(), c.Params("id"), req.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// UnassignTask handles DELETE /api/v1/tasks/:id/assign.
func (h *Handlers) UnassignTask(c *fiber.Ctx) error {
	resp, err := h.taskPort.UnassignTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// ListMyTasks handles GET /api/v1/tasks. It lists tasks assigned to the
// authenticated user.
func (h *Handlers) ListMyTasks(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	resp, err := h.taskPort.ListTasksByUser(c.UserContext(), claims.UserID, skip, limit)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toListTasksResponse(resp))
}

// CreateProject handles POST /api/v1/projects.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "Name is required")
	}

	resp, err := h.taskPort.CreateProject(c.UserContext(), &task.CreateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProjectResponse(resp))
}

// GetProject handles GET /api/v1/projects/:id.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	resp, err := h.taskPort.GetProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toProjectResponse(resp))
}

// UpdateProject handles PUT /api/v1/projects/:id.
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.taskPort.UpdateProject(c.UserContext(), &task.UpdateProjectRequest{
		ProjectID:   c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toProjectResponse(resp))
}

// ListMyProjects handles GET /api/v1/projects. It lists projects created by
// the authenticated user.
func (h *Handlers) ListMyProjects(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	resp, err := h.taskPort.ListProjectsByUser(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	out := ListProjectsResponse{
		Projects: make([]ProjectResponse, 0, len(resp.Projects)),
		Total:    resp.Total,
	}
	for _, p := range resp.Projects {
		out.Projects = append(out.Projects, toProjectResponse(&p))
	}
	return c.JSON(out)
}

// ListProjectTasks handles GET /api/v1/projects/:id/tasks.
func (h *Handlers) ListProjectTasks(c *fiber.Ctx) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	// A missing project yields an empty list, not a 404; tasks are the
	// resource being addressed.
	resp, err := h.taskPort.ListTasksByProject(c.UserContext(), c.Params("id"), skip, limit)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(toListTasksResponse(resp))
}

// ListNotifications handles GET /api/v1/notifications.
func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	resp, err := h.notifyPort.List(c.UserContext(), &notification.ListNotificationsRequest{
		UserID:     claims.UserID,
		UnreadOnly: c.QueryBool("unread_only", false),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		return internalError(c, err)
	}

	out := ListNotificationsResponse{
		Notifications: make([]NotificationResponse, 0, len(resp.Notifications)),
		Total:         resp.Total,
		UnreadCount:   resp.UnreadCount,
	}
	for _, n := range resp.Notifications {
		out.Notifications = append(out.Notifications, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(out)
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (h *Handlers) MarkNotificationRead(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.notifyPort.MarkRead(c.UserContext(), c.Params("id"), claims.UserID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: "Notification not found",
			})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleTaskError maps task module errors to HTTP statuses. Errors cross
// the service boundary as strings, so known messages are matched.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case strings.Contains(errStr, "cannot be empty"),
		strings.Contains(errStr, "invalid task status"),
		strings.Contains(errStr, "invalid task priority"),
		strings.Contains(errStr, "transition"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: trimServiceError(errStr),
		})
	default:
		return internalError(c, err)
	}
}

// handleAuthError maps auth module errors to HTTP statuses.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"),
		strings.Contains(errStr, "password must be"),
		strings.Contains(errStr, "full name is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: trimServiceError(errStr),
		})
	default:
		return internalError(c, err)
	}
}

// trimServiceError strips the transport wrapping so clients see only the
// final cause.
func trimServiceError(errStr string) string {
	if idx := strings.LastIndex(errStr, ": "); idx >= 0 {
		return errStr[idx+2:]
	}
	return errStr
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func internalError(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// toTaskResponse converts the task module DTO to the HTTP DTO.
func toTaskResponse(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toListTasksResponse(resp *task.ListTasksResponse) ListTasksResponse {
	out := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(resp.Tasks)),
		Total: resp.Total,
	}
	for i := range resp.Tasks {
		out.Tasks = append(out.Tasks, toTaskResponse(&resp.Tasks[i]))
	}
	return out
}

// toProjectResponse converts the task module DTO to the HTTP DTO.
func toProjectResponse(p *task.ProjectResponse) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
