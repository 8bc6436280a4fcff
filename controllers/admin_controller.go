package controllers

import (
	"net/http"

	"relay/config"
	"relay/dto"
	"relay/response"
	"relay/services"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// AdminController xử lý login admin, live monitor và danh sách reminder
type AdminController struct {
	Reminders *services.ReminderService
	Monitor   *melody.Melody
}

// NewAdminController tạo AdminController
func NewAdminController(reminders *services.ReminderService, monitor *melody.Melody) *AdminController {
	return &AdminController{Reminders: reminders, Monitor: monitor}
}

// Login là handler của POST /api/admin/login
func (ctl *AdminController) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "password は必須です")
		return
	}

	hash := config.GetEnv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		response.Error(c, http.StatusServiceUnavailable, "admin login chưa được cấu hình")
		return
	}
	if !services.CheckAdminPassword(req.Password, hash) {
		response.Unauthorized(c, "mật khẩu không đúng")
		return
	}

	token, err := services.GenerateAdminToken(config.GetEnv("JWT_SECRET"))
	if err != nil {
		response.ServerError(c, "không tạo được token")
		return
	}
	response.Success(c, dto.AdminLoginResponse{Token: token})
}

// MonitorWS nâng cấp kết nối lên websocket cho admin live monitor
func (ctl *AdminController) MonitorWS(c *gin.Context) {
	ctl.Monitor.HandleRequest(c.Writer, c.Request)
}

// ListReminders là handler của GET /api/admin/reminders
func (ctl *AdminController) ListReminders(c *gin.Context) {
	reminders, err := ctl.Reminders.ListByUser(c.Query("user_id"))
	if err != nil {
		response.ServerError(c, "không lấy được danh sách reminder")
		return
	}
	response.Success(c, gin.H{"reminders": reminders})
}
