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

// setupTestCache returns a cache on REDIS_ADDR, skipping when it is unset or
// unreachable.
func setupTestCache(t *testing.T, ttl time.Duration) (*UserExistenceCache, *redis.Client) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return New(client, ttl), client
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tasktrack:user_exists:42", key(42))
}

func TestUserExistenceCache(t *testing.T) {
	c, client := setupTestCache(t, time.Minute)
	ctx := context.Background()
	userID := time.Now().UnixNano()
	t.Cleanup(func() { client.Del(ctx, key(userID)) })

	_, found, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, userID))

	exists, found, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, exists)

	ttl, err := client.TTL(ctx, key(userID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 5)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}
