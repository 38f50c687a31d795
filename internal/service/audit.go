package service

import (
	"context"
	"time"

	"medhaven/internal/domain"
	"medhaven/internal/repository"
	"medhaven/pkg/logger"
)

type AuditService interface {
	LogEvent(ctx context.Context, actorUserID, actorRole, chatRoomID string, messageID *int64, eventType string, payload map[string]interface{}) error
}

type auditService struct {
	auditRepo repository.AuditRepository
	log       logger.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, log logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		log:       log,
	}
}

func (s *auditService) LogEvent(ctx context.Context, actorUserID, actorRole, chatRoomID string, messageID *int64, eventType string, payload map[string]interface{}) error {
	if payload == nil {
		payload = make(map[string]interface{})
	}

	auditLog := &domain.AuditLog{
		EventTime:   time.Now().UTC(),
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		ChatRoomID:  chatRoomID,
		MessageID:   messageID,
		EventType:   eventType,
		Payload:     payload,
	}

	return s.auditRepo.CreateLog(ctx, auditLog)
}
