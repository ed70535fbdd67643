package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
)

// RequireAuth resolves the caller from a bearer token, or from the login
// session when no Authorization header is sent.
func RequireAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			session := sessions.Default(c)
			if v, ok := session.Get(constants.SessionKeyToken).(string); ok {
				token = v
			}
		}

		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		caller, err := resolver.ResolveCaller(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		// Store caller in context for easy access in handlers
		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// GetCaller retrieves the resolved caller from context
func GetCaller(c *gin.Context) (identity.Caller, bool) {
	value, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return identity.Caller{}, false
	}
	caller, ok := value.(identity.Caller)
	return caller, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
