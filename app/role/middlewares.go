package role

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/security"
	"github.com/roosthq/roost/models"
)

const (
	authorizationHeaderKey  = "Authorization"
	authorizationTypeBearer = "Bearer"

	// Context keys set by Authenticate and read by downstream handlers.
	ContextUserIDKey    = "userID"
	ContextUserEmailKey = "userEmail"
	ContextUserRoleKey  = "userRole"
)

// Middleware carries the request gates of the authorization layer. All
// dependencies are injected at construction, so the gates can be mounted
// by any module without import knots.
type Middleware struct {
	maker   security.Maker
	service Service
	cfg     *Config
	logger  logger.Logger
}

// NewMiddleware creates the authorization middleware set.
func NewMiddleware(maker security.Maker, service Service, cfg *Config, log logger.Logger) *Middleware {
	return &Middleware{
		maker:   maker,
		service: service,
		cfg:     cfg,
		logger:  log,
	}
}

// Authenticate verifies the bearer token, resolves the account behind it
// and stores identity values on the request context. Suspended and
// pending accounts are rejected even with a valid token.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", authorizationHeaderKey)

		authHeader := c.GetHeader(authorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c, "authentication required")
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || fields[0] != authorizationTypeBearer {
			api.UnauthorizedResponse(c, "invalid authorization header")
			c.Abort()
			return
		}

		payload, err := m.maker.VerifyToken(fields[1])
		if err != nil {
			if errors.Is(err, security.ErrExpiredToken) {
				api.UnauthorizedResponse(c, "token has expired")
			} else {
				api.UnauthorizedResponse(c, "invalid token")
			}
			c.Abort()
			return
		}

		user, err := m.service.ResolveIdentity(c.Request.Context(), payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				api.UnauthorizedResponse(c, "account no longer exists")
			} else {
				m.logger.Error(err, logger.Fields{"op": "resolve identity"})
				api.InternalErrorResponse(c, "could not verify identity")
			}
			c.Abort()
			return
		}
		if !user.IsActive() {
			api.UnauthorizedResponse(c, "account is not active")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserEmailKey, user.Email)
		c.Set(ContextUserRoleKey, user.Role)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// role name is in the allow-list. It gates on the name alone; permission
// checks go through RequirePermissions.
func (m *Middleware) RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := allowed[c.GetString(ContextUserRoleKey)]; !ok {
			api.ForbiddenResponse(c, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates on the admin role.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRoles(models.RoleAdmin)
}

// RequireTeacher gates on teacher or above.
func (m *Middleware) RequireTeacher() gin.HandlerFunc {
	return m.RequireRoles(models.RoleTeacher, models.RoleAdmin)
}

// RequireStudent gates on any system role.
func (m *Middleware) RequireStudent() gin.HandlerFunc {
	return m.RequireRoles(models.RoleStudent, models.RoleTeacher, models.RoleAdmin)
}

// RequirePermissions allows the request through when the user holds at
// least one of the permissions. Each permission is evaluated in its own
// goroutine and the first grant wins. The whole check runs under a
// bounded timeout; on expiry the request is denied, never waved through.
func (m *Middleware) RequirePermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			api.UnauthorizedResponse(c, "authentication required")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), m.cfg.PermissionCheckTimeout)
		defer cancel()

		type outcome struct {
			granted bool
			err     error
		}
		// Buffered so abandoned checks can finish after a grant or timeout.
		results := make(chan outcome, len(permissions))
		for _, permission := range permissions {
			go func(permission string) {
				granted, err := m.service.HasPermission(ctx, userID, permission)
				results <- outcome{granted: granted, err: err}
			}(permission)
		}

		var evalErr error
		for range permissions {
			select {
			case res := <-results:
				if res.err != nil {
					evalErr = res.err
					continue
				}
				if res.granted {
					c.Next()
					return
				}
			case <-ctx.Done():
				api.ForbiddenResponse(c, "permission check timed out")
				c.Abort()
				return
			}
		}

		if evalErr != nil {
			m.logger.Error(evalErr, logger.Fields{"user_id": userID, "op": "permission check"})
			api.InternalErrorResponse(c, "could not evaluate permissions")
			c.Abort()
			return
		}

		api.ForbiddenResponse(c, "insufficient permissions")
		c.Abort()
	}
}

// CurrentUserID returns the authenticated user ID from the context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CurrentUserRole returns the authenticated role name from the context.
func CurrentUserRole(c *gin.Context) string {
	return c.GetString(ContextUserRoleKey)
}
