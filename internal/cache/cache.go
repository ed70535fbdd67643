// Package cache is a small read-through cache for public task listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TaskListCache stores rendered task list pages. Every committed lifecycle
// write calls Invalidate, which drops all pages at once.
type TaskListCache interface {
	// Get looks key up. On a miss the returned Slot is where the freshly
	// computed page belongs.
	Get(ctx context.Context, key string, dest interface{}) (Slot, bool, error)
	// Set stores value in slot. A slot obtained before an Invalidate is
	// never read again, so a page computed from pre-write data cannot
	// outlive the write.
	Set(ctx context.Context, slot Slot, value interface{}) error
	Invalidate(ctx context.Context) error
}

// Slot pins a page key to the cache version seen by Get. The zero Slot
// stores nothing.
type Slot struct {
	key string
}

// RedisCache keeps pages under a versioned key space. Invalidate bumps the
// version so stale pages become unreachable and expire on their TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisCache) pageKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	return fmt.Sprintf("%s:v%d:%s", c.prefix, version, key), nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (Slot, bool, error) {
	pageKey, err := c.pageKey(ctx, key)
	if err != nil {
		return Slot{}, false, err
	}
	slot := Slot{key: pageKey}

	data, err := c.client.Get(ctx, pageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return slot, false, nil
		}
		return slot, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return slot, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return slot, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slot Slot, value interface{}) error {
	if slot.key == "" {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.client.Set(ctx, slot.key, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.versionKey()).Err()
}

// Noop is used when no Redis server is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (Slot, bool, error) { return Slot{}, false, nil }
func (Noop) Set(context.Context, Slot, interface{}) error { return nil }
func (Noop) Invalidate(context.Context) error { return nil }
