package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docmanager/internal/app"
	"docmanager/internal/model"
	"docmanager/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// Authorize verifies the bearer token and checks the caller's role against
// the action's allow-list before the handler runs.
func Authorize(policy *app.Policy, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		identity, err := policy.AuthorizeAction(token, action)
		if err != nil {
			if errors.Is(err, app.ErrForbidden) {
				response.Error(c, http.StatusForbidden, response.CodeForbidden, "insufficient role for this action")
			} else {
				response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextRoleKey, identity.Role)
		c.Next()
	}
}

// IdentityFrom pulls the decoded identity the Authorize middleware stored.
func IdentityFrom(c *gin.Context) (app.Identity, bool) {
	userIDAny, ok := c.Get(ContextUserIDKey)
	if !ok {
		return app.Identity{}, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		return app.Identity{}, false
	}

	roleAny, ok := c.Get(ContextRoleKey)
	if !ok {
		return app.Identity{}, false
	}
	role, ok := roleAny.(model.Role)
	if !ok {
		return app.Identity{}, false
	}

	return app.Identity{UserID: userID, Role: role}, true
}
