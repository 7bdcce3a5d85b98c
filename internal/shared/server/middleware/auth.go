package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/shared/auth"
	"resumitory-backend/internal/shared/server/respond"
	"resumitory-backend/internal/shared/telemetry"
)

const userIDKey = "userId"

// Auth validates the bearer token on every request and stores the verified
// user ID in the gin context. Expired and malformed tokens both end the
// request with 401; they are told apart in logs only.
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		userID, err := verifier.UserID(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, auth.ErrExpiredToken) {
				reason = "expired"
			}
			telemetry.Warn("auth.rejected", map[string]any{
				"reason":     reason,
				"path":       c.Request.URL.Path,
				"request_id": RequestIDFromContext(c),
			})
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
