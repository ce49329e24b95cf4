// Package redis caches computed status summaries in Redis.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"carelink/internal/app"

	"github.com/go-redis/redis/v8"
)

const statusTTL = 60 * time.Second

// StatusCache implements app.StatusCache on a Redis client. Summaries are
// stored as JSON under a per-user key with a short TTL, so a cold cache
// only costs one recomputation.
type StatusCache struct {
	client *redis.Client
}

// New creates a StatusCache and verifies the connection.
func New(addr, password string, db int) (*StatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &StatusCache{client: client}, nil
}

// NewWithClient wraps an existing client. Intended for tests.
func NewWithClient(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

// Close closes the underlying client.
func (c *StatusCache) Close() error {
	return c.client.Close()
}

func statusKey(userID string) string {
	return "carelink:status:" + userID
}

// GetStatus returns the cached summary, or (nil, nil) on a miss.
func (c *StatusCache) GetStatus(ctx context.Context, userID string) (*app.StatusSummary, error) {
	raw, err := c.client.Get(ctx, statusKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s app.StatusSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt entry behaves like a miss; the next write replaces it.
		return nil, nil
	}
	return &s, nil
}

// SetStatus stores the summary under the user's key.
func (c *StatusCache) SetStatus(ctx context.Context, userID string, s app.StatusSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKey(userID), raw, statusTTL).Err()
}

// InvalidateStatus drops the user's cached summary.
func (c *StatusCache) InvalidateStatus(ctx context.Context, userID string) error {
	return c.client.Del(ctx, statusKey(userID)).Err()
}
