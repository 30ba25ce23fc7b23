// File: waly/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"waly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OptionalAuthMiddleware sets "userID" when a valid bearer token is present.
// Requests without a token continue anonymously; the assistant then only sees
// page types, never user data. A token that is present but invalid is rejected.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.String("ip", getClientIP(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
