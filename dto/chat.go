package dto

// ChatRequest là body của POST /api/chat
type ChatRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// FeedbackRequest là body của POST /api/feedback
type FeedbackRequest struct {
	ConversationID uint `json:"conversation_id" binding:"required"`
	Rating         int  `json:"rating" binding:"required"`
}

// StatsResponse là kết quả của GET /api/stats
type StatsResponse struct {
	TotalConversations int64            `json:"total_conversations"`
	TodayConversations int64            `json:"today_conversations"`
	ByPlatform         map[string]int64 `json:"by_platform"`
	AvgResponseTimeMs  float64          `json:"avg_response_time_ms"`
	AvgSatisfaction    float64          `json:"avg_satisfaction"`
	ExternalLogs       int64            `json:"external_logs"`
}
