// Package cache keeps the latest run summary in Redis so the API can
// serve it without replaying the ledger.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmorten/price-tracker/internal/models"
)

const summaryKey = "pricetracker:latest_run"

// Summaries older than this are considered stale and expire.
const summaryTTL = 48 * time.Hour

// Cache wraps a Redis client for run-summary storage.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr.
func New(addr string) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewWithClient wraps an existing client (used by tests).
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// StoreSummary stores the summary under the fixed key.
func (c *Cache) StoreSummary(ctx context.Context, s *models.RunSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey, data, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to store run summary: %w", err)
	}
	return nil
}

// LatestSummary returns the most recent summary, or nil when none is
// cached.
func (c *Cache) LatestSummary(ctx context.Context) (*models.RunSummary, error) {
	data, err := c.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run summary: %w", err)
	}
	var s models.RunSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}
	return &s, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
