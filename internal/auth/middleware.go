package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenMiddleware checks the Authorization header against a single shared
// bearer token. An empty configured token disables the check entirely,
// which is the expected mode for a local single-operator setup.
func TokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing bearer token"})
			c.Abort()
			return
		}

		provided := strings.TrimPrefix(header, "Bearer ")
		if provided != token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid bearer token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
