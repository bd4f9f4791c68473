package authmw

import (
	"net/http"
	"strings"

	"docsyncgo/internal/auth"

	"github.com/gin-gonic/gin"
)

const userIDKey = "auth_user_id"

// RequireAuth resolves the caller's identity before any handler (REST or the
// websocket upgrade) runs. Browsers cannot set headers on websocket dials, so
// a "token" query parameter is accepted alongside the Bearer header.
func RequireAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
			return
		}
		userID, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if h := c.GetHeader("x-auth-token"); h != "" {
		return h
	}
	return c.Query("token")
}
