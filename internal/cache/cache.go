package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is an injectable cache-aside service. A Cache with a nil client is the
// disabled implementation: every lookup misses and every store is a no-op,
// which is what tests and cacheless deployments get.
type Cache struct {
	client *redis.Client
}

// New creates a Cache backed by the given Redis client (which may be nil).
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// GetOrBuild tries Redis first; on miss it calls build (which must populate
// dest) and stores the result with ttl. An unreadable or corrupt entry counts
// as a miss, so a broken cache read never fails the build. Concurrent misses
// may each rebuild; a stampede on expiry is tolerated, not guarded against.
func (c *Cache) GetOrBuild(ctx context.Context, key string, dest any, ttl time.Duration, build func() error) error {
	if found, err := c.GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}

	if err := build(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = c.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key. Best-effort; a failed delete only extends
// staleness until the TTL lapses.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.Enabled() {
		c.client.Del(ctx, key)
	}
}
