package domain

import "time"

type AuditLog struct {
	ID          int64                  `json:"id"`
	EventTime   time.Time              `json:"event_time"`
	ActorUserID string                 `json:"actor_user_id,omitempty"`
	ActorRole   string                 `json:"actor_role"`
	ChatRoomID  string                 `json:"chat_room_id,omitempty"`
	MessageID   *int64                 `json:"message_id,omitempty"`
	EventType   string                 `json:"event_type"`
	Payload     map[string]interface{} `json:"payload"`
}

const (
	ActorRoleUser   = "user"
	ActorRoleSystem = "system"
)

const (
	EventTypeMessageEdited = "MESSAGE_EDITED"
	EventTypeUserSeeded    = "USER_SEEDED"
)
