package services

import (
	"time"

	"relay/config"
	"relay/models"
	"relay/services/logger"

	"github.com/redis/go-redis/v9"
)

// PipelineResult là kết quả của một lượt xử lý tin nhắn
type PipelineResult struct {
	ResponseText   string
	Keywords       []string
	Context        []ContextRecord
	ResponseTimeMs int
	UsedFallback   bool
	Saved          bool
}

// ChatPipeline nối các bước: keyword -> tìm context -> sinh câu trả lời -> lưu.
// Dùng chung cho cả ba kênh web / LINE / Chatwork.
type ChatPipeline struct {
	Keywords      *KeywordService
	Retriever     *ContextRetriever
	Generator     *ResponseGenerator
	Conversations *ConversationService
	RDB           *redis.Client // có thể nil, cache conversation_id theo user
	Logger        logger.Logger
	ContextLimit  int
}

// NewChatPipeline tạo ChatPipeline
func NewChatPipeline(kw *KeywordService, retriever *ContextRetriever, gen *ResponseGenerator, conv *ConversationService, rdb *redis.Client, log logger.Logger) *ChatPipeline {
	return &ChatPipeline{
		Keywords:      kw,
		Retriever:     retriever,
		Generator:     gen,
		Conversations: conv,
		RDB:           rdb,
		Logger:        log,
		ContextLimit:  5,
	}
}

// Handle chạy pipeline đồng bộ cho một tin nhắn và lưu kết quả.
// Không bao giờ trả lỗi: mọi bước đều có fallback riêng.
func (p *ChatPipeline) Handle(userID, message, conversationID, platform string) PipelineResult {
	start := time.Now()

	if conversationID == "" {
		conversationID = p.cachedConversationID(userID)
	}

	keywords := p.Keywords.Extract(message)
	context := p.Retriever.Search(keywords, userID, p.ContextLimit)
	responseText, usedFallback := p.Generator.Generate(message, context)

	elapsed := int(time.Since(start).Milliseconds())

	saved := p.Conversations.Save(&models.Conversation{
		UserID:         userID,
		ConversationID: conversationID,
		UserMessage:    message,
		AIResponse:     responseText,
		Keywords:       keywords,
		SourcePlatform: platform,
		ResponseTimeMs: elapsed,
	}, context)

	if conversationID != "" {
		p.rememberConversationID(userID, conversationID)
	}

	return PipelineResult{
		ResponseText:   responseText,
		Keywords:       keywords,
		Context:        context,
		ResponseTimeMs: elapsed,
		UsedFallback:   usedFallback,
		Saved:          saved,
	}
}

// conversation_id là session handle phía LLM, cache 24h theo user
// để tin nhắn tiếp theo từ LINE/Chatwork dùng lại cùng session.
func (p *ChatPipeline) cachedConversationID(userID string) string {
	if p.RDB == nil {
		return ""
	}
	val, err := p.RDB.Get(config.Ctx, "conv:"+userID).Result()
	if err != nil {
		return ""
	}
	return val
}

func (p *ChatPipeline) rememberConversationID(userID, conversationID string) {
	if p.RDB == nil {
		return
	}
	if err := p.RDB.Set(config.Ctx, "conv:"+userID, conversationID, 24*time.Hour).Err(); err != nil {
		p.Logger.Debug("không cache được conversation_id cho %s: %v", userID, err)
	}
}
