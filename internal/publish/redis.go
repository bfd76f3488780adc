// Package publish mirrors each cycle's price table to Redis so other
// processes can read the latest rows.
package publish

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stocktracker/internal/tracker"
)

// KeyPrefix is prepended to the ticker to form each row's hash key.
const KeyPrefix = "tracker:quote:"

// Key returns the Redis key for ticker's row.
func Key(ticker string) string {
	return KeyPrefix + ticker
}

// RedisSink writes rows as Redis hashes with a TTL.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSink wraps an existing client. Rows expire after ttl; zero keeps
// them until overwritten.
func NewRedisSink(client *redis.Client, ttl time.Duration) *RedisSink {
	return &RedisSink{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Fields returns the hash fields stored for row.
func Fields(row tracker.Row, updatedAt time.Time) map[string]any {
	return map[string]any{
		"ticker":        row.Ticker,
		"current_price": row.CurrentPrice,
		"daily_change":  row.DailyChange,
		"status":        row.Kind.String(),
		"sort_key":      strconv.FormatFloat(row.SortKey(), 'f', -1, 64),
		"updated_at":    updatedAt.UTC().Format(time.RFC3339),
	}
}

// Publish writes all rows in a single pipeline.
func (s *RedisSink) Publish(ctx context.Context, rows []tracker.Row) error {
	if len(rows) == 0 {
		return nil
	}

	updatedAt := s.now()
	pipe := s.client.Pipeline()
	for _, row := range rows {
		key := Key(row.Ticker)
		pipe.HSet(ctx, key, Fields(row, updatedAt))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish %d rows to redis: %w", len(rows), err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *RedisSink) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
