package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository interface {
	// Increment bumps the counter for key and returns the new count and the
	// time left in the current window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type rateLimitRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRateLimitRepository(redis *redis.Client, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

func (r *rateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to increment rate limit", "error", err, "key", key)
		return 0, 0, apperrors.Storage("increment rate limit", err)
	}

	if count == 1 {
		if err := r.redis.Expire(ctx, key, window).Err(); err != nil {
			r.log.Error("Failed to set rate limit window", "error", err, "key", key)
			return 0, 0, apperrors.Storage("increment rate limit", err)
		}
	}

	ttl, err := r.redis.PTTL(ctx, key).Result()
	if err != nil {
		r.log.Warn("Failed to read rate limit window", "error", err, "key", key)
		ttl = window
	}

	remaining := ttl
	if remaining < 0 {
		remaining = window
	}
	return count, remaining, nil
}
