package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) GetByID(ctx context.Context, id int64) (*domain.ChatMessage, error) {
	args := m.Called(ctx, id)
	if msg, ok := args.Get(0).(*domain.ChatMessage); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepository) Update(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListByRoom(ctx context.Context, chatRoomID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, chatRoomID)
	msgs, _ := args.Get(0).([]*domain.ChatMessage)
	return msgs, args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockChatRepository) ListUnreadForReceiver(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, userID)
	msgs, _ := args.Get(0).([]*domain.ChatMessage)
	return msgs, args.Error(1)
}

func (m *MockChatRepository) CounterpartIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
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
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
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
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogEvent(ctx context.Context, actorUserID, actorRole, chatRoomID string, messageID *int64, eventType string, payload map[string]interface{}) error {
	args := m.Called(ctx, actorUserID, actorRole, chatRoomID, messageID, eventType, payload)
	return args.Error(0)
}

type MockAssetHost struct {
	mock.Mock
	body []byte
}

func (m *MockAssetHost) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*domain.Asset, error) {
	m.body, _ = io.ReadAll(body)
	args := m.Called(ctx, key, size, contentType)
	if a, ok := args.Get(0).(*domain.Asset); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// memChatStore is an in-memory message store with the same ordering and
// read-state rules as the Postgres repository.
type memChatStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.ChatMessage
}

func newMemChatStore() *memChatStore {
	return &memChatStore{rows: make(map[int64]*domain.ChatMessage)}
}

func clone(m *domain.ChatMessage) *domain.ChatMessage {
	c := *m
	c.ImageURLs = append([]string{}, m.ImageURLs...)
	c.FileURLs = append([]string{}, m.FileURLs...)
	c.ReadBy = append([]string{}, m.ReadBy...)
	return &c
}

func (s *memChatStore) Create(_ context.Context, message *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	message.ID = s.nextID
	s.rows[message.ID] = clone(message)
	return nil
}

func (s *memChatStore) GetByID(_ context.Context, id int64) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NotFound("chat not found")
	}
	return clone(m), nil
}

func (s *memChatStore) Update(_ context.Context, message *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[message.ID]
	if !ok {
		return apperrors.NotFound("chat not found")
	}
	m.Text = message.Text
	m.ImageURLs = append([]string{}, message.ImageURLs...)
	m.FileURLs = append([]string{}, message.FileURLs...)
	m.IsEdited = message.IsEdited
	return nil
}

func (s *memChatStore) filter(keep func(*domain.ChatMessage) bool) []*domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ChatMessage, 0)
	for _, m := range s.rows {
		if keep(m) {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memChatStore) ListByRoom(_ context.Context, chatRoomID string) ([]*domain.ChatMessage, error) {
	return s.filter(func(m *domain.ChatMessage) bool { return m.ChatRoomID == chatRoomID }), nil
}

func (s *memChatStore) MarkRead(_ context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil
	}
	if !m.IsReadBy(userID) {
		m.ReadBy = append(m.ReadBy, userID)
	}
	return nil
}

func (s *memChatStore) ListUnreadForReceiver(_ context.Context, userID string) ([]*domain.ChatMessage, error) {
	return s.filter(func(m *domain.ChatMessage) bool { return m.ReceiverID == userID && !m.IsReadBy(userID) }), nil
}

func (s *memChatStore) CounterpartIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, m := range s.filter(func(m *domain.ChatMessage) bool { return m.IsParticipant(userID) }) {
		if m.SenderID == userID {
			ids = append(ids, m.ReceiverID)
		} else {
			ids = append(ids, m.SenderID)
		}
	}
	return ids, nil
}

// steppingClock returns strictly increasing times.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}
