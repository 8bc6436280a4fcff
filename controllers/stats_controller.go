package controllers

import (
	"relay/response"
	"relay/services"

	"github.com/gin-gonic/gin"
)

// StatsController xử lý GET /api/stats
type StatsController struct {
	Stats *services.StatsService
}

// NewStatsController tạo StatsController
func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{Stats: stats}
}

// GetStats trả về thống kê sử dụng
func (ctl *StatsController) GetStats(c *gin.Context) {
	stats, err := ctl.Stats.GetStats()
	if err != nil {
		response.ServerError(c, "統計の取得に失敗しました")
		return
	}
	response.Success(c, stats)
}
