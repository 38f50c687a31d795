package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/jwt"
	"medhaven/pkg/logger"
)

var testJWT = config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "medhaven"}

func TestValidateToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWT, logger.NewNop())

	user := &domain.User{ID: "d1", Role: domain.RoleDoctor, PasswordHash: "hash"}
	userRepo.On("GetByID", mock.Anything, "d1").Return(user, nil)

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	got, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestValidateToken_Rejections(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWT, logger.NewNop())
	userRepo.On("GetByID", mock.Anything, "gone").Return(nil, apperrors.NotFound("user not found"))

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	foreign, err := jwt.GenerateToken("d1", "Doctor", "other-secret", "medhaven", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), foreign)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	expired, err := jwt.GenerateToken("d1", "Doctor", testJWT.Secret, "medhaven", -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), expired)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Equal(t, "session expired", apperrors.PublicMessage(err))

	orphan, err := jwt.GenerateToken("gone", "Patient", testJWT.Secret, "medhaven", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), orphan)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestListDoctors_StripsPasswordHash(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, logger.NewNop())
	userRepo.On("ListByRole", mock.Anything, domain.RoleDoctor).
		Return([]*domain.User{{ID: "d1", PasswordHash: "x", Role: domain.RoleDoctor}}, nil)

	doctors, err := svc.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Empty(t, doctors[0].PasswordHash)
}

func TestGetMe_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, logger.NewNop())
	userRepo.On("GetByID", mock.Anything, "x").Return(nil, apperrors.NotFound("user not found"))

	_, err := svc.GetMe(context.Background(), "x")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
