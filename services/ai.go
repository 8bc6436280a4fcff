package services

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"relay/config"
	"relay/errors"

	json "github.com/goccy/go-json"
)

// AIMessage là một message trong hội thoại gửi lên LLM
type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIResponse định nghĩa cấu trúc phản hồi từ endpoint chat completions
type AIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// AIClient gọi endpoint LLM tương thích OpenAI, thử lần lượt danh sách model
type AIClient struct {
	APIKey  string
	BaseURL string
	Models  []string
	HTTP    *http.Client
}

// NewAIClientFromEnv tạo AIClient từ biến môi trường
func NewAIClientFromEnv() *AIClient {
	models := strings.Split(config.GetEnvDefault("AI_MODELS", "gpt-4o-mini,gpt-4o,gpt-3.5-turbo"), ",")
	for i := range models {
		models[i] = strings.TrimSpace(models[i])
	}
	timeout := config.GetEnvInt("AI_TIMEOUT_SECONDS", 30)

	return &AIClient{
		APIKey:  config.GetEnv("AI_API_KEY"),
		BaseURL: strings.TrimRight(config.GetEnvDefault("AI_API_BASE", "https://api.openai.com/v1"), "/"),
		Models:  models,
		HTTP:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Available cho biết client có credential để gọi hay không
func (c *AIClient) Available() bool {
	return c != nil && c.APIKey != ""
}

// Chat gọi chat completions, thử từng model theo thứ tự ưu tiên.
// Model không tồn tại / lỗi 4xx -> thử model tiếp theo.
// Timeout / lỗi kết nối -> trả lỗi transport ngay, không retry.
func (c *AIClient) Chat(messages []AIMessage, maxTokens int, temperature float64) (string, *errors.AppError) {
	if !c.Available() {
		return "", errors.NewAppError(errors.ErrCodeAIMissingKey, "AI_API_KEY chưa cấu hình", nil)
	}

	var lastErr *errors.AppError
	for _, model := range c.Models {
		text, err := c.chatOnce(model, messages, maxTokens, temperature)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if err.Code == errors.ErrCodeAITransport {
			// Mạng đã chết thì model tiếp theo cũng không cứu được
			return "", err
		}
		// AI_BAD_MODEL / AI_BAD_RESPONSE: thử model tiếp theo
	}

	if lastErr == nil {
		lastErr = errors.NewAppError(errors.ErrCodeAIUnavailable, "không có model nào được cấu hình", nil)
	}
	return "", lastErr
}

func (c *AIClient) chatOnce(model string, messages []AIMessage, maxTokens int, temperature float64) (string, *errors.AppError) {
	requestBody, _ := json.Marshal(map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})

	req, err := http.NewRequest("POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeAITransport, "không tạo được request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", errors.NewAppError(errors.ErrCodeAITransport, fmt.Sprintf("timeout khi gọi model %s", model), err)
		}
		return "", errors.NewAppError(errors.ErrCodeAITransport, fmt.Sprintf("lỗi kết nối khi gọi model %s", model), err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", errors.NewAppError(errors.ErrCodeAIBadModel, fmt.Sprintf("model %s trả về status %d", model, resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewAppError(errors.ErrCodeAIBadResponse, fmt.Sprintf("model %s trả về status %d", model, resp.StatusCode), nil)
	}

	var aiResp AIResponse
	if err := json.Unmarshal(body, &aiResp); err != nil || len(aiResp.Choices) == 0 {
		return "", errors.NewAppError(errors.ErrCodeAIBadResponse, fmt.Sprintf("model %s trả về body không hợp lệ", model), err)
	}

	return strings.TrimSpace(aiResp.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
