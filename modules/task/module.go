package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/events"
	"github.com/example/taskboard/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task and project management services (core domain).
// The store backend is selected with TASK_STORE: "sqlite" (default, path in
// TASK_DB_PATH) or "postgres" (connection string in DATABASE_URL).
type TaskModule struct {
	store    string
	dbPath   string
	dbURL    string
	db       *gorm.DB
	pool     *pgxpool.Pool
	service  *Service
	cache    cache.CacheService
	policy   domain.TransitionPolicy
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)

// ModuleOption configures the task module.
type ModuleOption func(*TaskModule)

// WithModuleCache wires a shared cache into the task service.
func WithModuleCache(c cache.CacheService) ModuleOption {
	return func(m *TaskModule) { m.cache = c }
}

// WithModuleTransitionPolicy replaces the permissive default status policy.
func WithModuleTransitionPolicy(p domain.TransitionPolicy) ModuleOption {
	return func(m *TaskModule) { m.policy = p }
}

// NewModule creates a new TaskModule configured from the environment.
func NewModule(opts ...ModuleOption) *TaskModule {
	store := os.Getenv("TASK_STORE")
	if store == "" {
		store = "sqlite"
	}
	dbPath := os.Getenv("TASK_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	m := &TaskModule{
		store:  store,
		dbPath: dbPath,
		dbURL:  os.Getenv("DATABASE_URL"),
		policy: domain.PermitAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the application event bus.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskAssignedV1.ToBase(),
		events.ProjectCreatedV1.ToBase(),
	}
}

// Health performs a health check on the task module's store.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	switch m.store {
	case "postgres":
		if m.pool == nil {
			return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
		}
		if err := m.pool.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("database ping failed: %v", err),
			}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"driver": "postgres"},
		}
	default:
		if m.db == nil {
			return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
		}
		sqlDB, err := m.db.DB()
		if err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("failed to get sql.DB: %v", err),
			}
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("database ping failed: %v", err),
			}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"driver": "sqlite", "path": m.dbPath},
		}
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.task." in the NATS
// subject.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.createTask)
		},
		"get-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-task", json.Unmarshal, json.Marshal, m.getTask)
		},
		"update-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.updateTask)
		},
		"assign-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "assign-task", json.Unmarshal, json.Marshal, m.assignTask)
		},
		"unassign-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "unassign-task", json.Unmarshal, json.Marshal, m.unassignTask)
		},
		"list-tasks-by-project": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks-by-project", json.Unmarshal, json.Marshal, m.listTasksByProject)
		},
		"list-tasks-by-user": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks-by-user", json.Unmarshal, json.Marshal, m.listTasksByUser)
		},
		"delete-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask)
		},
		"create-project": func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-project", json.Unmarshal, json.Marshal, m.createProject)
		},
		"get-project": func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-project", json.Unmarshal, json.Marshal, m.getProject)
		},
		"update-project": func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-project", json.Unmarshal, json.Marshal, m.updateProject)
		},
		"list-projects-by-user": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-projects-by-user", json.Unmarshal, json.Marshal, m.listProjectsByUser)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered %d services under services.task.*", len(services))
	return nil
}

// Start initializes the store, runs migrations and builds the service.
func (m *TaskModule) Start(ctx context.Context) error {
	var tasks TaskRepository
	var projects ProjectRepository

	switch m.store {
	case "postgres":
		if m.dbURL == "" {
			return fmt.Errorf("DATABASE_URL not set for postgres store")
		}
		log.Println("[task] Connecting to PostgreSQL")
		pool, err := pgxpool.New(ctx, m.dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return err
		}
		m.pool = pool
		tasks = NewPgTaskRepository(pool)
		projects = NewPgProjectRepository(pool)

	case "sqlite":
		log.Printf("[task] Connecting to SQLite database: %s", m.dbPath)
		logLevel := logger.Silent
		if os.Getenv("DB_DEBUG") == "true" {
			logLevel = logger.Info
		}
		db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&domain.Project{}, &domain.Task{}); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		m.db = db
		tasks = NewGormTaskRepository(db)
		projects = NewGormProjectRepository(db)

	default:
		return fmt.Errorf("unknown task store %q", m.store)
	}

	svcOpts := []ServiceOption{WithTransitionPolicy(m.policy)}
	if m.cache != nil {
		svcOpts = append(svcOpts, WithCache(m.cache))
	}
	m.service = NewService(tasks, projects, svcOpts...)

	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	log.Printf("[task] Module started (store: %s)", m.store)
	return nil
}

// Stop gracefully closes the store connection.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.pool != nil {
		m.pool.Close()
		log.Println("[task] Database pool closed")
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		log.Println("[task] Database connection closed")
	}
	return nil
}
