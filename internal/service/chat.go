package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"medhaven/internal/domain"
	"medhaven/internal/repository"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type SendMessageInput struct {
	ChatRoomID string
	SenderID   string
	ReceiverID string
	Text       string
	ImageURLs  []string
	FileURLs   []string
	IsBot      bool
}

// ChatService is the durable half of the chat. It never publishes realtime
// events; clients emit those themselves alongside these calls.
type ChatService interface {
	SendMessage(ctx context.Context, callerID string, in SendMessageInput) (*domain.ChatMessage, error)
	EditMessage(ctx context.Context, messageID int64, editorID string, patch domain.MessagePatch) (*domain.ChatMessage, error)
	GetRoomMessages(ctx context.Context, chatRoomID, callerID string) ([]*domain.ChatMessage, error)
	MarkRead(ctx context.Context, messageID int64, userID string) error
	GetUnread(ctx context.Context, userID, callerID string) ([]*domain.ChatMessage, error)
	GetContacts(ctx context.Context, userID string) ([]domain.Contact, error)
	CreateRoom(ctx context.Context, callerID, participantID string) (string, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	audit    AuditService
	log      logger.Logger
	now      func() time.Time
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, audit AuditService, log logger.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		audit:    audit,
		log:      log,
		now:      storageClock,
	}
}

// storageClock matches the microsecond precision of sent_at so a message
// reads back with the timestamp it was returned with.
func storageClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *chatService) SendMessage(ctx context.Context, callerID string, in SendMessageInput) (*domain.ChatMessage, error) {
	if in.ChatRoomID == "" || in.SenderID == "" || in.ReceiverID == "" {
		return nil, apperrors.Validation("chatRoomId, senderId and receiverId are required")
	}
	if in.SenderID != callerID {
		return nil, apperrors.Forbidden("you can only send messages as yourself")
	}
	roomID, err := domain.RoomID(in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if roomID != in.ChatRoomID {
		return nil, apperrors.Validation("chatRoomId does not match senderId and receiverId")
	}

	message := &domain.ChatMessage{
		ChatRoomID: roomID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		ImageURLs:  nonNil(in.ImageURLs),
		FileURLs:   nonNil(in.FileURLs),
		IsBot:      in.IsBot,
		IsEdited:   false,
		SentAt:     s.now(),
		ReadBy:     []string{in.SenderID},
	}
	if !message.HasContent() {
		return nil, apperrors.Validation("message must have text or an attachment")
	}

	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, errors.Wrapf(err, "send message in room %s", roomID)
	}

	return message, nil
}

func (s *chatService) EditMessage(ctx context.Context, messageID int64, editorID string, patch domain.MessagePatch) (*domain.ChatMessage, error) {
	message, err := s.chatRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, errors.Wrapf(err, "edit message %d", messageID)
	}
	if message.SenderID != editorID {
		return nil, apperrors.Forbidden("only the sender can edit this chat")
	}

	previousText := message.Text
	patch.Apply(message)
	if !message.HasContent() {
		return nil, apperrors.Validation("message must keep text or an attachment")
	}
	message.IsEdited = true

	if err := s.chatRepo.Update(ctx, message); err != nil {
		return nil, errors.Wrapf(err, "edit message %d", messageID)
	}

	payload := map[string]interface{}{"previous_text": previousText, "text": message.Text}
	if err := s.audit.LogEvent(ctx, editorID, domain.ActorRoleUser, message.ChatRoomID, &message.ID, domain.EventTypeMessageEdited, payload); err != nil {
		s.log.Warn("Failed to write audit log", "error", err, "message_id", message.ID)
	}

	return message, nil
}

func (s *chatService) GetRoomMessages(ctx context.Context, chatRoomID, callerID string) ([]*domain.ChatMessage, error) {
	if chatRoomID == "" {
		return nil, apperrors.Validation("chatRoomId is required")
	}
	if !domain.IsRoomParticipant(chatRoomID, callerID) {
		return nil, apperrors.Forbidden("you are not a participant of this chat room")
	}

	messages, err := s.chatRepo.ListByRoom(ctx, chatRoomID)
	if err != nil {
		return nil, errors.Wrapf(err, "list room %s", chatRoomID)
	}
	return messages, nil
}

func (s *chatService) MarkRead(ctx context.Context, messageID int64, userID string) error {
	message, err := s.chatRepo.GetByID(ctx, messageID)
	if err != nil {
		return errors.Wrapf(err, "mark message %d read", messageID)
	}
	if !message.IsParticipant(userID) {
		return apperrors.Forbidden("you are not a participant of this chat")
	}
	if message.IsReadBy(userID) {
		return nil
	}

	if err := s.chatRepo.MarkRead(ctx, messageID, userID); err != nil {
		return errors.Wrapf(err, "mark message %d read", messageID)
	}
	return nil
}

func (s *chatService) GetUnread(ctx context.Context, userID, callerID string) ([]*domain.ChatMessage, error) {
	if userID == "" {
		return nil, apperrors.Validation("userId is required")
	}
	if userID != callerID {
		return nil, apperrors.Forbidden("you can only read your own unread chats")
	}

	messages, err := s.chatRepo.ListUnreadForReceiver(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list unread for %s", userID)
	}
	return messages, nil
}

// GetContacts collects the distinct counterparts of userID first, then
// resolves exactly that set of accounts in one batch.
func (s *chatService) GetContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	ids, err := s.chatRepo.CounterpartIDs(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list contacts for %s", userID)
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == userID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	contacts := make([]domain.Contact, 0, len(unique))
	if len(unique) == 0 {
		return contacts, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve contacts for %s", userID)
	}
	for _, u := range users {
		contacts = append(contacts, domain.Contact{ID: u.ID, Name: u.FullName()})
	}
	if len(users) < len(unique) {
		s.log.Warn("Some contacts have no account", "user_id", userID, "expected", len(unique), "found", len(users))
	}

	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Name != contacts[j].Name {
			return contacts[i].Name < contacts[j].Name
		}
		return contacts[i].ID < contacts[j].ID
	})
	return contacts, nil
}

// CreateRoom returns the room shared by the caller and participantID. Nothing
// is stored; the room exists as soon as its two participants do.
func (s *chatService) CreateRoom(ctx context.Context, callerID, participantID string) (string, error) {
	if participantID == "" {
		return "", apperrors.Validation("participantId is required")
	}
	if _, err := s.userRepo.GetByID(ctx, participantID); err != nil {
		return "", errors.Wrapf(err, "create room with %s", participantID)
	}
	return domain.RoomID(callerID, participantID)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
