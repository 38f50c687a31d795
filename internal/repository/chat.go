package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type ChatRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) error
	GetByID(ctx context.Context, id int64) (*domain.ChatMessage, error)
	Update(ctx context.Context, message *domain.ChatMessage) error
	ListByRoom(ctx context.Context, chatRoomID string) ([]*domain.ChatMessage, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	ListUnreadForReceiver(ctx context.Context, userID string) ([]*domain.ChatMessage, error)
	CounterpartIDs(ctx context.Context, userID string) ([]string, error)
}

type chatRepository struct {
	db  DB
	log logger.Logger
}

func NewChatRepository(db DB, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

const messageColumns = `id, chat_room_id, sender_id, receiver_id, text, image_urls, file_urls, is_bot, is_edited, sent_at, read_by`

func (r *chatRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (chat_room_id, sender_id, receiver_id, text, image_urls, file_urls, is_bot, is_edited, sent_at, read_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		message.ChatRoomID, message.SenderID, message.ReceiverID, message.Text,
		nonNil(message.ImageURLs), nonNil(message.FileURLs), message.IsBot, message.IsEdited,
		message.SentAt, nonNil(message.ReadBy),
	).Scan(&message.ID)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "chat_room_id", message.ChatRoomID)
		return apperrors.Storage("create message", err)
	}

	return nil
}

func (r *chatRepository) GetByID(ctx context.Context, id int64) (*domain.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE id = $1`

	message, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("chat not found")
		}
		r.log.Error("Failed to get message", "error", err, "message_id", id)
		return nil, apperrors.Storage("get message", err)
	}

	return message, nil
}

// Update writes the mutable content fields. Concurrent updates are last-write-wins.
func (r *chatRepository) Update(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		UPDATE chat_messages
		SET text = $2, image_urls = $3, file_urls = $4, is_edited = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		message.ID, message.Text, nonNil(message.ImageURLs), nonNil(message.FileURLs), message.IsEdited,
	)
	if err != nil {
		r.log.Error("Failed to update message", "error", err, "message_id", message.ID)
		return apperrors.Storage("update message", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("chat not found")
	}

	return nil
}

func (r *chatRepository) ListByRoom(ctx context.Context, chatRoomID string) ([]*domain.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE chat_room_id = $1 ORDER BY sent_at ASC, id ASC`

	messages, err := r.list(ctx, query, chatRoomID)
	if err != nil {
		r.log.Error("Failed to list room messages", "error", err, "chat_room_id", chatRoomID)
		return nil, apperrors.Storage("list messages", err)
	}
	return messages, nil
}

// MarkRead adds userID to read_by unless it is already there. A second call is a no-op.
func (r *chatRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	query := `
		UPDATE chat_messages
		SET read_by = array_append(read_by, $2)
		WHERE id = $1 AND NOT ($2 = ANY(read_by))
	`

	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		r.log.Error("Failed to mark message read", "error", err, "message_id", id)
		return apperrors.Storage("mark message read", err)
	}
	return nil
}

func (r *chatRepository) ListUnreadForReceiver(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE receiver_id = $1 AND NOT ($1 = ANY(read_by)) ORDER BY sent_at ASC, id ASC`

	messages, err := r.list(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list unread messages", "error", err, "user_id", userID)
		return nil, apperrors.Storage("list unread messages", err)
	}
	return messages, nil
}

// CounterpartIDs returns every distinct user that exchanged at least one message with userID.
func (r *chatRepository) CounterpartIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END
		FROM chat_messages
		WHERE sender_id = $1 OR receiver_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list counterparts", "error", err, "user_id", userID)
		return nil, apperrors.Storage("list counterparts", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan counterpart", "error", err)
			return nil, apperrors.Storage("list counterparts", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list counterparts", err)
	}

	return ids, nil
}

func (r *chatRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func scanMessage(row pgx.Row) (*domain.ChatMessage, error) {
	message := &domain.ChatMessage{}
	err := row.Scan(
		&message.ID, &message.ChatRoomID, &message.SenderID, &message.ReceiverID, &message.Text,
		&message.ImageURLs, &message.FileURLs, &message.IsBot, &message.IsEdited,
		&message.SentAt, &message.ReadBy,
	)
	if err != nil {
		return nil, err
	}
	message.ImageURLs = nonNil(message.ImageURLs)
	message.FileURLs = nonNil(message.FileURLs)
	message.ReadBy = nonNil(message.ReadBy)
	return message, nil
}

// nonNil keeps TEXT[] columns and JSON arrays from becoming NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
