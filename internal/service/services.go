package service

import (
	"medhaven/internal/config"
	"medhaven/internal/repository"
	"medhaven/pkg/logger"
)

type Services struct {
	Auth      AuthService
	User      UserService
	Chat      ChatService
	Asset     AssetService
	RateLimit RateLimitService
	Audit     AuditService
}

func NewServices(repos *repository.Repositories, host AssetHost, cfg *config.Config, log logger.Logger) *Services {
	audit := NewAuditService(repos.Audit, log)

	return &Services{
		Auth:      NewAuthService(repos.User, cfg.JWT, log),
		User:      NewUserService(repos.User, log),
		Chat:      NewChatService(repos.Chat, repos.User, audit, log),
		Asset:     NewAssetService(host, cfg.Upload, log),
		RateLimit: NewRateLimitService(repos.RateLimit, cfg.RateLimit, log),
		Audit:     audit,
	}
}
