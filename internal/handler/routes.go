package handler

import (
	"github.com/gin-gonic/gin"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	"medhaven/internal/middleware"
)

// RegisterRoutes mounts the chat API, account reads, health and the
// realtime endpoint on router.
func RegisterRoutes(
	router *gin.Engine,
	handlers *Handlers,
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	cfg *config.Config,
) {
	participants := auth.RequireRoles(domain.RolePatient, domain.RoleDoctor)

	router.GET("/ping", handlers.Health.Ping)
	router.GET("/health", handlers.Health.Check)

	v1 := router.Group("/api/v1")
	v1.Use(rateLimit.Limit())
	{
		chat := v1.Group("/chat")
		{
			chat.POST("/send", participants, handlers.Chat.SendMessage)
			chat.PUT("/edit/:id", participants, handlers.Chat.EditMessage)
			chat.GET("/room/:chatRoomId", participants, handlers.Chat.GetRoomMessages)
			chat.PUT("/read/:id", participants, handlers.Chat.MarkRead)
			chat.GET("/unread/:userId", participants, handlers.Chat.GetUnread)
			chat.GET("/patientlist", auth.RequireRoles(domain.RoleDoctor), handlers.Chat.GetPatients)
			chat.POST("/createRoom", participants, handlers.Chat.CreateRoom)
			chat.POST("/uploadImage", participants, handlers.Upload.UploadImage)
		}

		user := v1.Group("/user")
		{
			user.GET("/me", auth.RequireRoles(), handlers.User.GetMe)
			user.GET("/doctors", handlers.User.ListDoctors)
		}
	}

	router.GET("/ws", middleware.HandshakeLimit(cfg.RateLimit), participants, handlers.WebSocket.Connect)
}
