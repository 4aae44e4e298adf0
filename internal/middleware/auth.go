package middleware

import (
	"net/http"
	"strings"

	"github.com/LocalStoryMap/Oz-Backand/internal/auth"
	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the user id in both
// the gin context (for handlers) and the request context (for log lines).
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}
