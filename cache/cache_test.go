package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// setupTestCache creates a cache instance for testing.
// Returns the cache and a cleanup function.
func setupTestCache(t *testing.T, prefix string) (*Cache, func()) {
	t.Helper()

	client := NewClient(testRedisAddr())

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr(), err)
	}

	cleanupKeys(ctx, client, prefix+"*")

	cache := New(client, prefix, 5*time.Minute)

	cleanup := func() {
		cleanupKeys(ctx, client, prefix+"*")
		_ = client.Close()
	}

	return cache, cleanup
}

// cleanupKeys removes all keys matching the pattern.
func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = nextCursor
		if cursor == 0 {
			return
		}
	}
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGetDelete(t *testing.T) {
	cache, cleanup := setupTestCache(t, "taskflow-test:setget:")
	defer cleanup()
	ctx := context.Background()

	var got cachedValue
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "tasks", Count: 3}))

	found, err = cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "tasks", Count: 3}, got)

	require.NoError(t, cache.Delete(ctx, "k"))
	found, err = cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	stats := cache.Snapshot()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(1), stats.Sets)
	assert.Equal(t, uint64(1), stats.Deletes)
}

func TestCache_TTL(t *testing.T) {
	_, cleanup := setupTestCache(t, "taskflow-test:ttl:")
	defer cleanup()

	client := NewClient(testRedisAddr())
	defer client.Close()

	short := New(client, "taskflow-test:ttl:", 100*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, short.Set(ctx, "expiring", cachedValue{Name: "x"}))

	time.Sleep(250 * time.Millisecond)

	var got cachedValue
	found, err := short.Get(ctx, "expiring", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Ping(t *testing.T) {
	cache, cleanup := setupTestCache(t, "taskflow-test:ping:")
	defer cleanup()

	assert.NoError(t, cache.Ping(context.Background()))
}
