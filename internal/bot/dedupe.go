package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper claims an update id so a redelivered update is handled once.
type Deduper interface {
	Claim(ctx context.Context, updateID int) (bool, error)
}

type RedisDeduper struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisDeduper(client redis.Cmdable, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func dedupeKey(updateID int) string {
	return fmt.Sprintf("dedupe:tg:%d", updateID)
}

func (d *RedisDeduper) Claim(ctx context.Context, updateID int) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupeKey(updateID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim update %d: %w", updateID, err)
	}
	return ok, nil
}

// NoopDeduper claims everything.
type NoopDeduper struct{}

func (NoopDeduper) Claim(context.Context, int) (bool, error) { return true, nil }
