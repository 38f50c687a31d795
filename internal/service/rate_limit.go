package service

import (
	"context"
	"time"

	"medhaven/internal/config"
	"medhaven/internal/repository"
	"medhaven/pkg/logger"
)

type RateLimitService interface {
	// Allow counts one request for key. When the window is exhausted it
	// returns false and how long until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	Limit() int
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	cfg           config.RateLimitConfig
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, cfg config.RateLimitConfig, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		cfg:           cfg,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	count, ttl, err := s.rateLimitRepo.Increment(ctx, "ratelimit:"+key, s.cfg.Window)
	if err != nil {
		return false, 0, err
	}
	if count > int64(s.cfg.Requests) {
		return false, ttl, nil
	}
	return true, ttl, nil
}

func (s *rateLimitService) Limit() int {
	return s.cfg.Requests
}
