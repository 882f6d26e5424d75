package middlewares

import (
	"net/http"
	"strings"

	"climate-hub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var jwtSecret []byte

// InitAuth sets the key admin tokens are verified with.
func InitAuth(secret string) {
	jwtSecret = []byte(secret)
}

// tokenFromRequest reads the token cookie, then a Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie("token"); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// AdminOnly lets through requests carrying a valid admin token.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			c.Abort()
			return
		}

		claims, err := utils.ParseJWT(jwtSecret, tokenString)
		if err != nil {
			zap.L().Debug("rejected admin token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if role, _ := claims["role"].(string); role != utils.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		subject, _ := claims["sub"].(string)
		c.Set("admin", subject)
		c.Next()
	}
}
