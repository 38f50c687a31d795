package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextUser     = "user"
)

type AuthMiddleware struct {
	authService service.AuthService
	cookies     []string
	log         logger.Logger
}

func NewAuthMiddleware(authService service.AuthService, jwtCfg config.JWTConfig, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookies:     jwtCfg.Cookies(),
		log:         log,
	}
}

// RequireRoles admits callers holding a valid session with one of roles.
// With no roles any authenticated caller is admitted.
func (m *AuthMiddleware) RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.Authenticate(c, roles...)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// Authenticate resolves the caller from the role session cookies, falling
// back to a Bearer token. A caller whose role is not in roles gets a
// Forbidden error.
func (m *AuthMiddleware) Authenticate(c *gin.Context, roles ...domain.Role) (*domain.User, error) {
	tokens := m.tokens(c)
	if len(tokens) == 0 {
		return nil, apperrors.Unauthorized("not authenticated")
	}

	var lastErr error
	for _, token := range tokens {
		user, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			lastErr = err
			continue
		}
		if !hasRole(user.Role, roles) {
			lastErr = apperrors.Forbidden("role " + string(user.Role) + " is not allowed here")
			continue
		}
		return user, nil
	}

	if !errors.Is(lastErr, apperrors.ErrUnauthorized) && !errors.Is(lastErr, apperrors.ErrForbidden) {
		m.log.Error("Failed to authenticate request", "error", lastErr)
	}
	return nil, lastErr
}

func (m *AuthMiddleware) tokens(c *gin.Context) []string {
	var tokens []string
	for _, name := range m.cookies {
		if v, err := c.Cookie(name); err == nil && v != "" {
			tokens = append(tokens, v)
		}
	}
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			tokens = append(tokens, parts[1])
		}
	}
	return tokens
}

func hasRole(role domain.Role, allowed []domain.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUserID returns the id stored by RequireRoles.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentUser returns the account stored by RequireRoles.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
