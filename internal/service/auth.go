package service

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	"medhaven/internal/repository"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/jwt"
	"medhaven/pkg/logger"
)

// AuthService resolves session tokens issued by the account service.
type AuthService interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
	IssueToken(user *domain.User) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("session expired")
		}
		return nil, apperrors.Unauthorized("invalid session")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("Token for unknown user", "user_id", claims.UserID)
			return nil, apperrors.Unauthorized("user not found")
		}
		return nil, errors.Wrap(err, "resolve session user")
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) IssueToken(user *domain.User) (string, error) {
	token, err := jwt.GenerateToken(user.ID, string(user.Role), s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.TTL)
	if err != nil {
		s.log.Error("Failed to generate token", "error", err, "user_id", user.ID)
		return "", errors.Wrap(err, "issue token")
	}
	return token, nil
}
