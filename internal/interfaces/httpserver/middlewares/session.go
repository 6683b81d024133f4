package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionTokenKey = "session_token"

// SessionToken reads the access token from the session cookie, falling back to
// an Authorization bearer header, and stores it in the gin context. A request
// without either proceeds anonymously.
func SessionToken(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = bearer(c.GetHeader("Authorization"))
		}
		if token != "" {
			c.Set(sessionTokenKey, token)
		}
		c.Next()
	}
}

// TokenFromContext returns the token stored by SessionToken.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
