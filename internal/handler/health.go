package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medhaven/internal/realtime"
)

type HealthHandler struct {
	hub *realtime.Hub
}

func NewHealthHandler(hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "PONG")
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "medhaven-chat",
		"realtime": h.hub.Stats(),
	})
}
