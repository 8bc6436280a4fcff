package models

import (
	"time"

	"github.com/lib/pq"
)

// Conversation lưu một lượt hỏi đáp (tin nhắn của user + câu trả lời của AI)
type Conversation struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             string         `gorm:"index;not null" json:"user_id"`
	ConversationID     string         `json:"conversation_id"`
	UserMessage        string         `gorm:"not null" json:"user_message"`
	AIResponse         string         `gorm:"not null" json:"ai_response"`
	Keywords           pq.StringArray `gorm:"type:text[]" json:"keywords"`
	ContextUsed        string         `gorm:"type:jsonb" json:"context_used"`
	SourcePlatform     string         `gorm:"index;default:web" json:"source_platform"` // web | line | chatwork
	ResponseTimeMs     int            `json:"response_time_ms"`
	SatisfactionRating *int           `json:"satisfaction_rating,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
