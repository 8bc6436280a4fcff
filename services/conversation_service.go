package services

import (
	"relay/models"
	"relay/services/logger"

	json "github.com/goccy/go-json"
	"github.com/olahol/melody"
	"gorm.io/gorm"
)

// ConversationService lưu lịch sử hội thoại và cập nhật đánh giá
type ConversationService struct {
	DB      *gorm.DB
	Monitor *melody.Melody // có thể nil, broadcast cho admin monitor
	Logger  logger.Logger
}

// NewConversationService tạo ConversationService
func NewConversationService(db *gorm.DB, monitor *melody.Melody, log logger.Logger) *ConversationService {
	return &ConversationService{DB: db, Monitor: monitor, Logger: log}
}

// Save lưu một lượt hội thoại. Ghi fail chỉ log + trả false,
// caller vẫn phải trả lời user bình thường.
func (s *ConversationService) Save(conv *models.Conversation, context []ContextRecord) bool {
	conv.ContextUsed = SerializeContext(context)
	if conv.Keywords == nil {
		conv.Keywords = []string{}
	}

	if err := s.DB.Create(conv).Error; err != nil {
		s.Logger.Error("lưu hội thoại thất bại (user=%s, platform=%s): %v", conv.UserID, conv.SourcePlatform, err)
		return false
	}

	s.broadcast(conv)
	return true
}

// SetRating cập nhật satisfaction_rating cho một hội thoại đã lưu
func (s *ConversationService) SetRating(conversationID uint, rating int) error {
	result := s.DB.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("satisfaction_rating", rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LogExternal ghi một dòng vào bảng external_logs (append-only).
func (s *ConversationService) LogExternal(platform, sourceID, userID, userName, message string, raw interface{}) bool {
	rawData := "{}"
	if raw != nil {
		if data, err := json.Marshal(raw); err == nil {
			rawData = string(data)
		}
	}

	entry := models.ExternalLog{
		Platform: platform,
		SourceID: sourceID,
		UserID:   userID,
		UserName: userName,
		Message:  message,
		RawData:  rawData,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		s.Logger.Error("ghi external log thất bại (platform=%s, user=%s): %v", platform, userID, err)
		return false
	}
	return true
}

// SerializeContext chuyển danh sách context sang JSON để lưu cột jsonb.
// Timestamp phải được đổi sang string trước khi serialize.
func SerializeContext(records []ContextRecord) string {
	out := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]interface{}{
			"message":    rec.Message,
			"response":   rec.Response,
			"created_at": rec.CreatedAt.Format("2006-01-02 15:04:05"),
			"source":     rec.Source,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func (s *ConversationService) broadcast(conv *models.Conversation) {
	if s.Monitor == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":             "conversation",
		"user_id":          conv.UserID,
		"source_platform":  conv.SourcePlatform,
		"user_message":     conv.UserMessage,
		"ai_response":      conv.AIResponse,
		"response_time_ms": conv.ResponseTimeMs,
	})
	if err != nil {
		return
	}
	s.Monitor.Broadcast(payload)
}
