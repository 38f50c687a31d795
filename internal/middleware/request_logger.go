package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"medhaven/pkg/logger"
)

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString(ContextUserID); userID != "" {
			kv = append(kv, "user_id", userID)
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("Request", kv...)
		case c.Writer.Status() >= 400:
			log.Warn("Request", kv...)
		default:
			log.Info("Request", kv...)
		}
	}
}
