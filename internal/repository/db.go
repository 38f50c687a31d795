package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "medhaven/pkg/errors"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		first_name        TEXT NOT NULL DEFAULT '',
		last_name         TEXT NOT NULL DEFAULT '',
		email             TEXT NOT NULL UNIQUE,
		phone             TEXT NOT NULL DEFAULT '',
		gender            TEXT NOT NULL DEFAULT '',
		role              TEXT NOT NULL,
		doctor_department TEXT NOT NULL DEFAULT '',
		password_hash     TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id           BIGSERIAL PRIMARY KEY,
		chat_room_id TEXT NOT NULL,
		sender_id    TEXT NOT NULL,
		receiver_id  TEXT NOT NULL,
		text         TEXT NOT NULL DEFAULT '',
		image_urls   TEXT[] NOT NULL DEFAULT '{}',
		file_urls    TEXT[] NOT NULL DEFAULT '{}',
		is_bot       BOOLEAN NOT NULL DEFAULT false,
		is_edited    BOOLEAN NOT NULL DEFAULT false,
		sent_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		read_by      TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_room ON chat_messages (chat_room_id, sent_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_receiver ON chat_messages (receiver_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_sender ON chat_messages (sender_id)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_time    TIMESTAMPTZ NOT NULL,
		actor_user_id TEXT,
		actor_role    TEXT NOT NULL,
		chat_room_id  TEXT,
		message_id    BIGINT,
		event_type    TEXT NOT NULL,
		payload       JSONB NOT NULL DEFAULT '{}'
	)`,
}

// EnsureSchema creates the tables and indexes the service needs if they are missing.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return apperrors.Storage("prepare schema", err)
		}
	}
	return nil
}
