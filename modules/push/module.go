package push

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Sender is the delivery contract the notification module uses to push a
// payload to a user's live connections.
type Sender interface {
	Send(userID string, payload any)
	IsOnline(userID string) bool
}

// PushModule runs the WebSocket endpoint and the connection hub.
type PushModule struct {
	app      *fiber.App
	hub      *Hub
	addr     string
	authPort auth.AuthPort
	cancel   context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*PushModule)(nil)
var _ mono.DependentModule = (*PushModule)(nil)
var _ mono.HealthCheckableModule = (*PushModule)(nil)
var _ Sender = (*Hub)(nil)

// NewModule creates a new PushModule.
func NewModule() *PushModule {
	port := os.Getenv("WS_PORT")
	if port == "" {
		port = "3001"
	}
	return &PushModule{
		hub:  NewHub(),
		addr: ":" + port,
	}
}

// Name returns the module name.
func (m *PushModule) Name() string {
	return "push"
}

// Dependencies declares the modules this module depends on.
func (m *PushModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives dependency service containers.
func (m *PushModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// Hub exposes the connection hub for wiring into the notification module.
func (m *PushModule) Hub() *Hub {
	return m.hub
}

// Health reports the hub and server state.
func (m *PushModule) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "server not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":        m.addr,
			"connections": m.hub.ConnectionCount(),
		},
	}
}

// Start launches the hub loop and the WebSocket server.
func (m *PushModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("authPort dependency not set")
	}

	hubCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.hub.Run(hubCtx)

	m.app = fiber.New(fiber.Config{
		AppName:               "taskboard-push",
		DisableStartupMessage: true,
	})
	m.app.Use(recover.New())

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"connections": m.hub.ConnectionCount(),
		})
	})

	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Query("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		claims, err := m.authPort.ValidateToken(c.Context(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("userID", claims.UserID)
		return c.Next()
	})

	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		cancel()
		return fmt.Errorf("push server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	log.Printf("[push] WebSocket server started on %s", m.addr)
	return nil
}

// Stop shuts down the server and the hub.
func (m *PushModule) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown push server: %w", err)
		}
	}
	if m.cancel != nil {
		m.cancel()
		m.hub.Wait()
	}
	log.Println("[push] Module stopped")
	return nil
}
