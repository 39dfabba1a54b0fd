package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WindowStore counts requests within the trailing window for a client
// key. Observe records the current request and returns the resulting
// in-window count, including the request just recorded, plus the oldest
// in-window timestamp so callers can compute when the window drains.
type WindowStore interface {
	Observe(ctx context.Context, key string, now time.Time, window time.Duration) (int64, time.Time, error)
}

const (
	defaultWindowPrefix = "ratelimit:window:"
	minSortedSetScore   = "-inf"
	maxSortedSetScore   = "+inf"
)

// RedisWindow keeps the sliding window in a Redis sorted set so
// multiple instances share one sustained budget. Each request becomes a
// uuid member scored by its millisecond timestamp.
type RedisWindow struct {
	client redis.Cmdable
	prefix string
}

// NewRedisWindow builds a WindowStore on the given client.
func NewRedisWindow(client redis.Cmdable, prefix string) *RedisWindow {
	if prefix == "" {
		prefix = defaultWindowPrefix
	}
	return &RedisWindow{client: client, prefix: prefix}
}

// Observe implements WindowStore.
func (w *RedisWindow) Observe(ctx context.Context, key string, now time.Time, window time.Duration) (int64, time.Time, error) {
	setKey := w.prefix + key
	horizon := now.Add(-window)

	p := w.client.Pipeline()
	removeOld := p.ZRemRangeByScore(ctx, setKey, "0", strconv.FormatInt(horizon.UnixMilli(), 10))
	add := p.ZAdd(ctx, setKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	count := p.ZCount(ctx, setKey, minSortedSetScore, maxSortedSetScore)
	first := p.ZRangeWithScores(ctx, setKey, 0, 0)
	p.Expire(ctx, setKey, window)

	if _, err := p.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to execute window pipeline for key %s: %w", key, err)
	}
	if err := removeOld.Err(); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to trim window for key %s: %w", key, err)
	}
	if err := add.Err(); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to record request for key %s: %w", key, err)
	}
	total, err := count.Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count window for key %s: %w", key, err)
	}
	oldest := now
	if members, err := first.Result(); err == nil && len(members) > 0 {
		oldest = time.UnixMilli(int64(members[0].Score)).UTC()
	}
	return total, oldest, nil
}
