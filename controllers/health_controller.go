package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController xử lý GET /health
type HealthController struct {
	DB *gorm.DB
}

// NewHealthController tạo HealthController
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health trả về trạng thái liveness/readiness
func (ctl *HealthController) Health(c *gin.Context) {
	dbStatus := "connected"
	status := "ok"
	code := http.StatusOK

	sqlDB, err := ctl.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "disconnected"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
