// Package cache provides a Redis-backed cache of user existence checks.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tasktrack:user_exists:"

// UserExistenceCache remembers which user ids are known to exist. Only
// positive results are stored; users are never deleted through the API, so a
// cached entry cannot go stale before its TTL.
type UserExistenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache using client with the given entry TTL.
func New(client *redis.Client, ttl time.Duration) *UserExistenceCache {
	return &UserExistenceCache{client: client, ttl: ttl}
}

// Connect creates a client for addr and verifies it with PING.
func Connect(ctx context.Context, addr string, ttl time.Duration) (*UserExistenceCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return New(client, ttl), nil
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

// Get reports whether userID is cached as existing. found is false on a
// cache miss.
func (c *UserExistenceCache) Get(ctx context.Context, userID int64) (exists, found bool, err error) {
	err = c.client.Get(ctx, key(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("cache get error: %w", err)
	}
	return true, true, nil
}

// Set records that userID exists.
func (c *UserExistenceCache) Set(ctx context.Context, userID int64) error {
	if err := c.client.Set(ctx, key(userID), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *UserExistenceCache) Close() error {
	return c.client.Close()
}
