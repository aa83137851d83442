package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projectboard/internal/app"
	"projectboard/internal/transport/http/response"
)

const (
	ContextUserIDKey    = "user_id"
	ContextUserEmailKey = "user_email"
	ContextTokenKey     = "bearer_token"
)

// AuthJWT resolves the bearer credential to a stored user before any handler
// runs: signature and expiry via the shared secret, revocation via Redis, and
// a user lookup so tokens of deleted users stop working immediately.
func AuthJWT(authService *app.AuthService) gin.HandlerFunc {
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
		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, app.ErrUnauthorized) {
				response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			} else {
				response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "authentication failed")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserEmailKey, user.Email)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}
