package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pizzeria/storefront/cart"
	"github.com/redis/go-redis/v9"
)

// ErrSnapshotMissing is returned by a Snapshotter that holds nothing for
// the requested session.
var ErrSnapshotMissing = errors.New("cart snapshot missing")

// Snapshotter keeps a copy of a session's cart lines outside the process.
type Snapshotter interface {
	Load(ctx context.Context, id string) ([]cart.Line, error)
	Save(ctx context.Context, id string, lines []cart.Line) error
	Delete(ctx context.Context, id string) error
}

// NoopSnapshotter keeps carts in memory only.
type NoopSnapshotter struct{}

func (NoopSnapshotter) Load(context.Context, string) ([]cart.Line, error) {
	return nil, ErrSnapshotMissing
}

func (NoopSnapshotter) Save(context.Context, string, []cart.Line) error { return nil }

func (NoopSnapshotter) Delete(context.Context, string) error { return nil }

// RedisSnapshotter stores cart lines as JSON under "cart:<id>". Every save
// refreshes the expiry, so a snapshot lives as long as its session.
type RedisSnapshotter struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSnapshotter(ctx context.Context, rdb *redis.Client, ttl time.Duration) (*RedisSnapshotter, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSnapshotter{rdb: rdb, ttl: ttl}, nil
}

func snapshotKey(id string) string {
	return "cart:" + id
}

func (r *RedisSnapshotter) Load(ctx context.Context, id string) ([]cart.Line, error) {
	val, err := r.rdb.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}

	var lines []cart.Line
	if err := json.Unmarshal(val, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return lines, nil
}

func (r *RedisSnapshotter) Save(ctx context.Context, id string, lines []cart.Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", id, err)
	}
	if err := r.rdb.Set(ctx, snapshotKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", id, err)
	}
	return nil
}

func (r *RedisSnapshotter) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, snapshotKey(id)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}
