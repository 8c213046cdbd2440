package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module provides the caching service as a mono module. Other modules
// receive the cache through explicit wiring in main.
type Module struct {
	cache     *Cache
	client    *redis.Client
	redisAddr string
	prefix    string
	ttl       time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new cache module.
func NewModule(redisAddr, prefix string, ttl time.Duration) *Module {
	return &Module{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis and creates the cache.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.cache = New(m.client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Health reports Redis connectivity.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "redis client not initialized",
		}
	}

	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":  m.redisAddr,
			"stats": m.cache.StatsSnapshot(),
		},
	}
}

// Cache returns the cache instance for wiring into other modules.
func (m *Module) Cache() *Cache {
	return m.cache
}

// The module delegates CacheService to the cache built in Start. This lets
// main hand the module to consumers before any module has started; consumers
// only call it after their own Start, by which point the cache exists.
var _ CacheService = (*Module)(nil)

// ErrNotStarted is returned when the cache is used before Start.
var ErrNotStarted = errors.New("cache module not started")

// Get implements CacheService.
func (m *Module) Get(ctx context.Context, key string, dest any) (bool, error) {
	if m.cache == nil {
		return false, ErrNotStarted
	}
	return m.cache.Get(ctx, key, dest)
}

// Set implements CacheService.
func (m *Module) Set(ctx context.Context, key string, value any) error {
	if m.cache == nil {
		return ErrNotStarted
	}
	return m.cache.Set(ctx, key, value)
}

// SetWithTTL implements CacheService.
func (m *Module) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.cache == nil {
		return ErrNotStarted
	}
	return m.cache.SetWithTTL(ctx, key, value, ttl)
}

// Delete implements CacheService.
func (m *Module) Delete(ctx context.Context, key string) error {
	if m.cache == nil {
		return ErrNotStarted
	}
	return m.cache.Delete(ctx, key)
}

// DeletePattern implements CacheService.
func (m *Module) DeletePattern(ctx context.Context, pattern string) error {
	if m.cache == nil {
		return ErrNotStarted
	}
	return m.cache.DeletePattern(ctx, pattern)
}
