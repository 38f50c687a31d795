package middleware

import (
	"math"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	"medhaven/internal/config"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

// Limit applies the shared Redis fixed window per client IP. When Redis is
// unreachable requests are let through.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := m.rateLimitService.Limit()
		allowed, retryAfter, err := m.rateLimitService.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			m.log.Warn("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			abortWithError(c, apperrors.TooManyRequests("too many requests, please try again later"))
			return
		}
		c.Next()
	}
}

// HandshakeLimit throttles websocket upgrades per client IP with an
// in-process store; the socket itself is long lived so the shared
// window does not apply.
func HandshakeLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  cfg.HandshakeRate,
		Limit: cfg.HandshakeLimit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(time.Until(info.ResetTime).Seconds()))))
			abortWithError(c, apperrors.TooManyRequests("too many connection attempts"))
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
