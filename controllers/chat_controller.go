package controllers

import (
	"fmt"
	"net/http"

	"time"

	"relay/config"
	"relay/dto"
	"relay/response"
	"relay/services"
	"relay/validator"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

// ChatController xử lý POST /api/chat: chạy pipeline rồi stream SSE về client
type ChatController struct {
	Pipeline   *services.ChatPipeline
	Limiter    *services.RateLimiter
	ChunkSize  int
	ChunkDelay time.Duration
}

// NewChatController tạo ChatController với tunable từ env
func NewChatController(pipeline *services.ChatPipeline, limiter *services.RateLimiter) *ChatController {
	return &ChatController{
		Pipeline:   pipeline,
		Limiter:    limiter,
		ChunkSize:  config.GetEnvInt("SSE_CHUNK_SIZE", 8),
		ChunkDelay: time.Duration(config.GetEnvInt("SSE_CHUNK_DELAY_MS", 30)) * time.Millisecond,
	}
}

// Chat là handler của POST /api/chat
func (ctl *ChatController) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "user_id と message は必須です")
		return
	}
	if err := validator.ValidateChatRequest(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !ctl.Limiter.Allow(req.UserID) {
		response.TooManyRequests(c, "リクエストが多すぎます。しばらくしてからお試しください。")
		return
	}

	// Câu trả lời được sinh đồng bộ trước, sau đó mới cắt chunk và stream.
	// Đây là pacing cho UI chứ không phải token streaming từ model.
	result := ctl.Pipeline.Handle(req.UserID, req.Message, req.ConversationID, "web")

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return
	}

	for _, chunk := range splitChunks(result.ResponseText, ctl.ChunkSize) {
		writeSSE(c, map[string]interface{}{"text": chunk})
		flusher.Flush()
		time.Sleep(ctl.ChunkDelay)
	}

	writeSSE(c, map[string]interface{}{"text": "", "done": true})
	flusher.Flush()
}

func writeSSE(c *gin.Context, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"text":"エラーが発生しました。","error":true}`)
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
}

// splitChunks cắt text thành các đoạn size rune một
func splitChunks(text string, size int) []string {
	if size <= 0 {
		size = 8
	}
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
