package validator

import (
	"strings"

	"relay/config"
	"relay/dto"
	"relay/errors"
)

// ValidateChatRequest kiểm tra body của POST /api/chat
func ValidateChatRequest(req *dto.ChatRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "user_id は必須です", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "message は必須です", nil)
	}

	maxLen := config.GetEnvInt("MAX_MESSAGE_LENGTH", 2000)
	if len([]rune(req.Message)) > maxLen {
		return errors.NewAppError(errors.ErrCodeMessageTooBig, "メッセージが長すぎます", nil)
	}
	return nil
}

// ValidateFeedbackRequest kiểm tra body của POST /api/feedback
func ValidateFeedbackRequest(req *dto.FeedbackRequest) error {
	if req.ConversationID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "conversation_id は必須です", nil)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return errors.NewAppError(errors.ErrCodeInvalidRating, "rating は 1〜5 で指定してください", nil)
	}
	return nil
}
