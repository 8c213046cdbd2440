package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tests require Redis on localhost:6379 and skip otherwise.
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) (*Cache, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, prefix, 5*time.Minute)
	cleanup := func() {
		_ = c.DeletePattern(ctx, "*")
		client.Close()
	}
	_ = c.DeletePattern(ctx, "*")

	return c, cleanup
}

func TestCache_GetSetDelete(t *testing.T) {
	c, cleanup := setupTestCache(t, "taskboard-test:")
	defer cleanup()
	ctx := context.Background()

	type payload struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	var miss payload
	found, err := c.Get(ctx, "task:1", &miss)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("expected cache miss on empty cache")
	}

	if err := c.Set(ctx, "task:1", payload{ID: "1", Title: "T1"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var hit payload
	found, err = c.Get(ctx, "task:1", &hit)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("expected cache hit after Set")
	}
	if hit.Title != "T1" {
		t.Errorf("expected title T1, got %q", hit.Title)
	}

	if err := c.Delete(ctx, "task:1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, _ = c.Get(ctx, "task:1", &hit)
	if found {
		t.Error("expected miss after Delete")
	}

	stats := c.StatsSnapshot()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Sets != 1 || stats.Deletes != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCache_DeletePattern(t *testing.T) {
	c, cleanup := setupTestCache(t, "taskboard-test:")
	defer cleanup()
	ctx := context.Background()

	for _, key := range []string{"task:1", "task:2", "project:1"} {
		if err := c.Set(ctx, key, key); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := c.DeletePattern(ctx, "task:*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	var dest string
	if found, _ := c.Get(ctx, "task:1", &dest); found {
		t.Error("expected task:1 to be deleted")
	}
	if found, _ := c.Get(ctx, "project:1", &dest); !found {
		t.Error("expected project:1 to survive")
	}
}
