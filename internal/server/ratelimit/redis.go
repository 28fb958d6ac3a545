package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Limiter backed by Redis, for deployments running more
// than one API instance. The window is kept by INCR plus a PEXPIRE set on
// the first hit, so all instances share one counter per identifier.
type RedisStore struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedisStore(client *redis.Client, maxRequests int, window time.Duration) *RedisStore {
	return &RedisStore{client: client, max: maxRequests, window: window}
}

func (s *RedisStore) Limit() int { return s.max }

func (s *RedisStore) Allow(ctx context.Context, id string) (Result, error) {
	key := "ratelimit:" + id

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis incr: %w", err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, key, s.window).Err(); err != nil {
			return Result{}, fmt.Errorf("redis pexpire: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis pttl: %w", err)
	}
	if ttl < 0 {
		// Counter exists without an expiry (e.g. a lost PEXPIRE); restore
		// the window rather than leave the key immortal.
		if err := s.client.PExpire(ctx, key, s.window).Err(); err != nil {
			return Result{}, fmt.Errorf("redis pexpire: %w", err)
		}
		ttl = s.window
	}

	remaining := s.max - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:      int(count) <= s.max,
		Remaining:    remaining,
		ResetSeconds: resetSeconds(ttl),
	}, nil
}
