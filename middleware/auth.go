package middleware

import (
	"strings"

	"relay/config"
	"relay/response"
	"relay/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware bảo vệ các endpoint admin bằng JWT.
// JWT_SECRET không cấu hình thì bỏ qua (optional credential -> tắt tính năng).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.GetEnv("JWT_SECRET")
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "thiếu Authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if err := services.VerifyAdminToken(tokenString, secret); err != nil {
			response.Unauthorized(c, "token không hợp lệ")
			c.Abort()
			return
		}

		c.Next()
	}
}
