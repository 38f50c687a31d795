package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"medhaven/internal/config"
	"medhaven/internal/middleware"
	"medhaven/internal/realtime"
	"medhaven/pkg/logger"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	cfg      config.RealtimeConfig
	log      logger.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, cfg *config.Config, log logger.Logger) *WebSocketHandler {
	origins := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
	for _, o := range cfg.CORS.AllowedOrigins {
		origins[o] = struct{}{}
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers always send Origin; non-browser clients may omit it.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		cfg: cfg.Realtime,
		log: log,
	}
}

// Connect upgrades an authenticated request and serves the connection until
// it closes. The session is resolved by the auth middleware before the upgrade.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Failed to upgrade connection", "error", err, "user_id", userID)
		return
	}

	h.log.Info("Realtime connection opened", "user_id", userID, "remote_addr", c.ClientIP())
	realtime.NewConn(ws, h.hub, userID, h.cfg, h.log).Serve()
}
