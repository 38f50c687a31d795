package repository

import (
	"context"

	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type AuditRepository interface {
	CreateLog(ctx context.Context, log *domain.AuditLog) error
}

type auditRepository struct {
	db  DB
	log logger.Logger
}

func NewAuditRepository(db DB, log logger.Logger) AuditRepository {
	return &auditRepository{db: db, log: log}
}

func (r *auditRepository) CreateLog(ctx context.Context, auditLog *domain.AuditLog) error {
	query := `
		INSERT INTO audit_log (event_time, actor_user_id, actor_role, chat_room_id, message_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	payload := auditLog.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}

	err := r.db.QueryRow(ctx, query,
		auditLog.EventTime, nullable(auditLog.ActorUserID), auditLog.ActorRole,
		nullable(auditLog.ChatRoomID), auditLog.MessageID, auditLog.EventType, payload,
	).Scan(&auditLog.ID)
	if err != nil {
		r.log.Error("Failed to create audit log", "error", err, "event_type", auditLog.EventType)
		return apperrors.Storage("create audit log", err)
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
