package controllers

import (
	"fmt"
	"net/http"
	"os"

	"relay/dto"
	"relay/response"
	"relay/services"
	"relay/services/logger"

	"github.com/gin-gonic/gin"
)

// ChatworkController xử lý webhook từ Chatwork
type ChatworkController struct {
	Chatwork *services.ChatworkService
	Pipeline *services.ChatPipeline
	Conv     *services.ConversationService
	Logger   logger.Logger
	// LogAllMessages: ghi external log cả khi bot không được mention
	LogAllMessages bool
}

// NewChatworkController tạo ChatworkController
func NewChatworkController(cw *services.ChatworkService, pipeline *services.ChatPipeline, conv *services.ConversationService, log logger.Logger) *ChatworkController {
	return &ChatworkController{
		Chatwork:       cw,
		Pipeline:       pipeline,
		Conv:           conv,
		Logger:         log,
		LogAllMessages: os.Getenv("CHATWORK_LOG_ALL_MESSAGES") == "1",
	}
}

// Webhook là handler của POST /api/chatwork/webhook
func (ctl *ChatworkController) Webhook(c *gin.Context) {
	if !ctl.Chatwork.Configured() {
		response.Error(c, http.StatusServiceUnavailable, "Chatwork chưa cấu hình")
		return
	}

	if !ctl.Chatwork.VerifyToken(c.GetHeader("X-ChatWorkWebhookToken")) {
		response.Unauthorized(c, "token không hợp lệ")
		return
	}

	var webhook dto.ChatworkWebhookBody
	if err := c.ShouldBindJSON(&webhook); err != nil {
		ctl.Logger.Error("body webhook Chatwork không parse được: %v", err)
		c.String(http.StatusOK, "OK")
		return
	}

	event := webhook.WebhookEvent
	userID := fmt.Sprintf("chatwork_%d", event.AccountID)
	roomID := fmt.Sprintf("%d", event.RoomID)

	mentioned := webhook.WebhookEventType == "mention_to_me" || ctl.Chatwork.IsMention(event.Body)
	if !mentioned {
		// Không mention bot: không gọi AI, không ghi conversation
		if ctl.LogAllMessages {
			ctl.Conv.LogExternal("chatwork", roomID, userID, "", event.Body, webhook)
		}
		c.String(http.StatusOK, "OK")
		return
	}

	message := services.StripTags(event.Body)
	if message == "" {
		c.String(http.StatusOK, "OK")
		return
	}

	ctl.Conv.LogExternal("chatwork", roomID, userID, "", message, webhook)

	result := ctl.Pipeline.Handle(userID, message, "", "chatwork")

	replyBody := fmt.Sprintf("[rp aid=%d to=%d-%s]\n%s", event.AccountID, event.RoomID, event.MessageID, result.ResponseText)
	if err := ctl.Chatwork.PostRoomMessage(event.RoomID, replyBody); err != nil {
		ctl.Logger.Error("gửi reply Chatwork thất bại (room=%d): %v", event.RoomID, err)
	}

	c.String(http.StatusOK, "OK")
}
