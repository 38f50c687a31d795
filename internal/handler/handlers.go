package handler

import (
	"medhaven/internal/config"
	"medhaven/internal/realtime"
	"medhaven/internal/service"
	"medhaven/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	User      *UserHandler
	Chat      *ChatHandler
	Upload    *UploadHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(hub),
		User:      NewUserHandler(services.User, log),
		Chat:      NewChatHandler(services.Chat, log),
		Upload:    NewUploadHandler(services.Asset, log),
		WebSocket: NewWebSocketHandler(hub, cfg, log),
	}
}
