package handler

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"medhaven/internal/domain"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, callerID string, in service.SendMessageInput) (*domain.ChatMessage, error) {
	args := m.Called(ctx, callerID, in)
	if msg, ok := args.Get(0).(*domain.ChatMessage); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) EditMessage(ctx context.Context, messageID int64, editorID string, patch domain.MessagePatch) (*domain.ChatMessage, error) {
	args := m.Called(ctx, messageID, editorID, patch)
	if msg, ok := args.Get(0).(*domain.ChatMessage); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) GetRoomMessages(ctx context.Context, chatRoomID, callerID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, chatRoomID, callerID)
	if msgs, ok := args.Get(0).([]*domain.ChatMessage); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) MarkRead(ctx context.Context, messageID int64, userID string) error {
	return m.Called(ctx, messageID, userID).Error(0)
}

func (m *MockChatService) GetUnread(ctx context.Context, userID, callerID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, userID, callerID)
	if msgs, ok := args.Get(0).([]*domain.ChatMessage); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) GetContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	if contacts, ok := args.Get(0).([]domain.Contact); ok {
		return contacts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) CreateRoom(ctx context.Context, callerID, participantID string) (string, error) {
	args := m.Called(ctx, callerID, participantID)
	return args.String(0), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) ListDoctors(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) UploadImage(ctx context.Context, uploaderID string, body io.Reader, size int64) (*domain.Asset, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, uploaderID, data, size)
	if a, ok := args.Get(0).(*domain.Asset); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// tokenAuth resolves the bearer token "<role>:<id>" without a store.
type tokenAuth struct{}

func (tokenAuth) ValidateToken(_ context.Context, token string) (*domain.User, error) {
	for _, role := range []domain.Role{domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin} {
		prefix := string(role) + ":"
		if len(token) > len(prefix) && token[:len(prefix)] == prefix {
			return &domain.User{ID: token[len(prefix):], Role: role}, nil
		}
	}
	return nil, apperrors.Unauthorized("invalid session")
}

func (tokenAuth) IssueToken(user *domain.User) (string, error) {
	return string(user.Role) + ":" + user.ID, nil
}

type unlimited struct{}

func (unlimited) Allow(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
func (unlimited) Limit() int                                                 { return 50 }
