package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxUserIDKey holds the authenticated user's id in the Gin context.
const CtxUserIDKey = "userID"

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value.
// The scheme is case-sensitive. An empty token still reports ok and is left
// for verification to reject.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// UserID returns the id stored by Auth, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
