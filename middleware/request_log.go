package middleware

import (
	"time"

	"relay/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger ghi access log cho mỗi request vào file log theo ngày
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		if status >= 500 {
			utils.LogError("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		utils.LogInfo("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
