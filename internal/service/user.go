package service

import (
	"context"

	"github.com/pkg/errors"

	"medhaven/internal/domain"
	"medhaven/internal/repository"
	"medhaven/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	ListDoctors(ctx context.Context) ([]*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "get user %s", userID)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListDoctors(ctx context.Context) ([]*domain.User, error) {
	doctors, err := s.userRepo.ListByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, errors.Wrap(err, "list doctors")
	}
	for _, d := range doctors {
		d.PasswordHash = ""
	}
	return doctors, nil
}
