package controllers

import (
	stderrors "errors"

	"relay/dto"
	"relay/response"
	"relay/services"
	"relay/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FeedbackController xử lý POST /api/feedback
type FeedbackController struct {
	Conversations *services.ConversationService
}

// NewFeedbackController tạo FeedbackController
func NewFeedbackController(conv *services.ConversationService) *FeedbackController {
	return &FeedbackController{Conversations: conv}
}

// Feedback cập nhật satisfaction_rating cho một hội thoại
func (ctl *FeedbackController) Feedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "conversation_id と rating は必須です")
		return
	}
	if err := validator.ValidateFeedbackRequest(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Conversations.SetRating(req.ConversationID, req.Rating); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会話が見つかりません")
			return
		}
		response.ServerError(c, "評価の保存に失敗しました")
		return
	}

	response.Success(c, gin.H{"status": "ok"})
}
