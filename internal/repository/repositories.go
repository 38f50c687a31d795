package repository

import (
	"github.com/redis/go-redis/v9"

	"medhaven/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Chat      ChatRepository
	Audit     AuditRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db DB, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Chat:      NewChatRepository(db, log),
		Audit:     NewAuditRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
