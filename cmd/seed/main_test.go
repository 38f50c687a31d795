package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*domain.User), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogEvent(ctx context.Context, actorUserID, actorRole, chatRoomID string, messageID *int64, eventType string, payload map[string]interface{}) error {
	return m.Called(ctx, actorUserID, actorRole, chatRoomID, messageID, eventType, payload).Error(0)
}

var admin = account{FirstName: "Admin", LastName: "MedHaven", Email: "admin@medhaven.com", Password: "admin123", Role: domain.RoleAdmin}

func TestSeedAccount_Creates(t *testing.T) {
	users := new(MockUserRepository)
	audit := new(MockAuditService)
	users.On("GetByEmail", mock.Anything, "admin@medhaven.com").Return(nil, apperrors.NotFound("user not found"))
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	audit.On("LogEvent", mock.Anything, mock.Anything, domain.ActorRoleSystem, "", (*int64)(nil), domain.EventTypeUserSeeded, mock.Anything).Return(nil)

	user, err := seedAccount(context.Background(), users, audit, admin)

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("admin123")))
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestSeedAccount_Idempotent(t *testing.T) {
	users := new(MockUserRepository)
	audit := new(MockAuditService)
	existing := &domain.User{ID: "a1", Email: "admin@medhaven.com", Role: domain.RoleAdmin}
	users.On("GetByEmail", mock.Anything, "admin@medhaven.com").Return(existing, nil)

	user, err := seedAccount(context.Background(), users, audit, admin)

	require.NoError(t, err)
	assert.Same(t, existing, user)
	users.AssertNumberOfCalls(t, "Create", 0)
	audit.AssertNumberOfCalls(t, "LogEvent", 0)
}

func TestSeedAccount_StorageFailure(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "admin@medhaven.com").Return(nil, apperrors.Storage("get user", assert.AnError))

	_, err := seedAccount(context.Background(), users, new(MockAuditService), admin)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}
