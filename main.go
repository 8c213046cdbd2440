package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/push"
	"github.com/example/taskboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Taskboard - Task & Project Management ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// The read cache is opt-in: without REDIS_ADDR the task module serves
	// every read from its store.
	var taskOpts []task.ModuleOption
	var cacheModule *cache.Module
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cacheModule = cache.NewModule(redisAddr, "taskboard:", 5*time.Minute)
		taskOpts = append(taskOpts, task.WithModuleCache(cacheModule))
	}

	pushModule := push.NewModule()

	// Register modules with the framework. The framework resolves
	// ServiceProviderModule, DependentModule, EventEmitterModule and
	// EventConsumerModule wiring; the push hub is injected manually because
	// it is not exposed through a ServiceContainer.
	//
	// Order: independent modules first, then modules with dependencies.
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(auth.NewModule())                         // Registration + tokens, emits user events
	app.Register(task.NewModule(taskOpts...))              // Core domain, emits task events
	app.Register(pushModule)                               // WebSocket delivery (depends on auth)
	app.Register(notification.NewModule(pushModule.Hub())) // Event consumer, pushes via hub
	app.Register(api.NewModule())                          // Driving adapter (depends on task, auth, notification)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("  POST   /api/v1/auth/register        - Register a user")
	log.Println("  POST   /api/v1/auth/login           - Login")
	log.Println("  POST   /api/v1/auth/refresh         - Refresh tokens")
	log.Println("  GET    /api/v1/profile              - Current user (auth)")
	log.Println("  POST   /api/v1/tasks                - Create a task (auth)")
	log.Println("  GET    /api/v1/tasks                - List my assigned tasks (auth)")
	log.Println("  GET    /api/v1/tasks/:id            - Get a task (auth)")
	log.Println("  PUT    /api/v1/tasks/:id            - Update a task (auth)")
	log.Println("  DELETE /api/v1/tasks/:id            - Delete a task (auth)")
	log.Println("  POST   /api/v1/tasks/:id/assign     - Assign a task (auth)")
	log.Println("  DELETE /api/v1/tasks/:id/assign     - Clear assignee (auth)")
	log.Println("  POST   /api/v1/projects             - Create a project (auth)")
	log.Println("  GET    /api/v1/projects             - List my projects (auth)")
	log.Println("  GET    /api/v1/projects/:id         - Get a project (auth)")
	log.Println("  PUT    /api/v1/projects/:id         - Update a project (auth)")
	log.Println("  GET    /api/v1/projects/:id/tasks   - List project tasks (auth)")
	log.Println("  GET    /api/v1/notifications        - List notifications (auth)")
	log.Println("  POST   /api/v1/notifications/:id/read - Mark read (auth)")
	log.Println("  GET    /health                      - Health check")
	log.Println("")
	log.Println("WebSocket notifications: ws://localhost:3001/ws?token=<access token>")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
