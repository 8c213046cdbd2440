package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	domain "github.com/example/taskboard/domain/notification"
	"github.com/example/taskboard/events"
	"github.com/example/taskboard/modules/push"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NotificationModule stores per-user notifications and reacts to board
// events. It is a driven adapter at the event edge and a service provider
// at the query edge.
type NotificationModule struct {
	db      *gorm.DB
	service *Service
	dbPath  string
	sender  push.Sender
}

// Compile-time interface checks.
var _ mono.Module = (*NotificationModule)(nil)
var _ mono.ServiceProviderModule = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)
var _ mono.HealthCheckableModule = (*NotificationModule)(nil)

// NewModule creates a new NotificationModule. sender may be nil when live
// delivery is not wanted.
func NewModule(sender push.Sender) *NotificationModule {
	dbPath := os.Getenv("NOTIFY_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard_notify.db"
	}
	return &NotificationModule{
		dbPath: dbPath,
		sender: sender,
	}
}

// Name returns the module name.
func (m *NotificationModule) Name() string {
	return "notification"
}

// Start initializes the notification store.
func (m *NotificationModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewRepository(db), m.sender)

	log.Printf("[notification] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *NotificationModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[notification] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *NotificationModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *NotificationModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "send", json.Unmarshal, json.Marshal, m.handleSend,
	); err != nil {
		return fmt.Errorf("failed to register send service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "mark-read", json.Unmarshal, json.Marshal, m.handleMarkRead,
	); err != nil {
		return fmt.Errorf("failed to register mark-read service: %w", err)
	}

	log.Printf("[notification] Registered services: send, list, mark-read")
	return nil
}

// RegisterEventConsumers subscribes to board events.
func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskAssignedV1, m.handleTaskAssigned, m); err != nil {
		return fmt.Errorf("failed to register TaskAssigned consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProjectCreatedV1, m.handleProjectCreated, m); err != nil {
		return fmt.Errorf("failed to register ProjectCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskAssigned, TaskUpdated, ProjectCreated, UserRegistered")
	return nil
}

// handleTaskAssigned notifies the assignee.
func (m *NotificationModule) handleTaskAssigned(ctx context.Context, event events.TaskAssignedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %s assigned to user %s", event.TaskID, event.AssignedTo)
	if err := m.service.notifyAssignment(ctx, event.AssignedTo, event.TaskID, event.Title); err != nil {
		log.Printf("[notification] %v", err)
	}
	return nil
}

// handleTaskUpdated notifies the current assignee, if any.
func (m *NotificationModule) handleTaskUpdated(ctx context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	if event.AssignedTo == nil {
		return nil
	}
	log.Printf("[notification] Task %s updated, notifying %s", event.TaskID, *event.AssignedTo)
	if err := m.service.notifyTaskUpdated(ctx, *event.AssignedTo, event.TaskID, event.Title, event.Changes); err != nil {
		log.Printf("[notification] %v", err)
	}
	return nil
}

// handleProjectCreated notifies the creator.
func (m *NotificationModule) handleProjectCreated(ctx context.Context, event events.ProjectCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Project %s created by user %s", event.ProjectID, event.CreatedBy)
	if err := m.service.notifyProjectCreated(ctx, event.CreatedBy, event.ProjectID, event.Name); err != nil {
		log.Printf("[notification] %v", err)
	}
	return nil
}

// handleUserRegistered sends a welcome notification.
func (m *NotificationModule) handleUserRegistered(ctx context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	log.Printf("[notification] User %s registered", event.UserID)
	_, err := m.service.Send(ctx, event.UserID,
		"Welcome to the board",
		fmt.Sprintf("Your account %s is ready", event.Email),
		domain.TypeWelcome,
	)
	if err != nil {
		log.Printf("[notification] failed to send welcome notification: %v", err)
	}
	return nil
}

// handleSend handles the send service request.
func (m *NotificationModule) handleSend(ctx context.Context, req SendNotificationRequest, _ *mono.Msg) (NotificationResponse, error) {
	notificationType := domain.Type(strings.TrimSpace(req.Type))
	n, err := m.service.Send(ctx, req.UserID, req.Title, req.Message, notificationType)
	if err != nil {
		return NotificationResponse{}, err
	}
	return toNotificationResponse(n), nil
}

// handleList handles the list service request.
func (m *NotificationModule) handleList(ctx context.Context, req ListNotificationsRequest, _ *mono.Msg) (ListNotificationsResponse, error) {
	notifications, err := m.service.List(ctx, req.UserID, req.UnreadOnly, req.Skip, req.Limit)
	if err != nil {
		return ListNotificationsResponse{}, err
	}

	// Total counts everything the filter matches, not just this page.
	total, err := m.service.Count(ctx, req.UserID, req.UnreadOnly)
	if err != nil {
		return ListNotificationsResponse{}, err
	}

	unread, err := m.service.UnreadCount(ctx, req.UserID)
	if err != nil {
		return ListNotificationsResponse{}, err
	}

	resp := ListNotificationsResponse{
		Notifications: make([]NotificationResponse, 0, len(notifications)),
		Total:         int(total),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}
	return resp, nil
}

// handleMarkRead handles the mark-read service request.
func (m *NotificationModule) handleMarkRead(ctx context.Context, req MarkReadRequest, _ *mono.Msg) (MarkReadResponse, error) {
	if err := m.service.MarkRead(ctx, req.NotificationID, req.UserID); err != nil {
		return MarkReadResponse{}, err
	}
	return MarkReadResponse{Marked: true}, nil
}

// toNotificationResponse converts a domain Notification to its DTO.
func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
