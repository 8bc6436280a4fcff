package services

import (
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"relay/config"
	"relay/services/logger"
)

var chatworkTagRe = regexp.MustCompile(`\[[^\]]*\]`)

// ChatworkService verify webhook token và gửi tin nhắn vào room qua REST API
type ChatworkService struct {
	WebhookToken string
	APIToken     string
	BotAccountID string
	HTTP         *http.Client
	Logger       logger.Logger
}

// NewChatworkServiceFromEnv tạo ChatworkService từ biến môi trường
func NewChatworkServiceFromEnv(log logger.Logger) *ChatworkService {
	return &ChatworkService{
		WebhookToken: config.GetEnv("CHATWORK_WEBHOOK_TOKEN"),
		APIToken:     config.GetEnv("CHATWORK_API_TOKEN"),
		BotAccountID: config.GetEnv("CHATWORK_BOT_ACCOUNT_ID"),
		HTTP:         &http.Client{Timeout: 15 * time.Second},
		Logger:       log,
	}
}

// Configured cho biết kênh Chatwork có đủ credential không
func (s *ChatworkService) Configured() bool {
	return s != nil && s.WebhookToken != "" && s.APIToken != ""
}

// VerifyToken so sánh shared token trong header webhook (constant time)
func (s *ChatworkService) VerifyToken(token string) bool {
	if s.WebhookToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.WebhookToken), []byte(token)) == 1
}

// IsMention kiểm tra tin nhắn có nhắc đến bot không ([To:accountID])
func (s *ChatworkService) IsMention(body string) bool {
	if s.BotAccountID == "" {
		return false
	}
	return strings.Contains(body, "[To:"+s.BotAccountID+"]")
}

// StripTags bỏ các tag Chatwork ([To:xxx], [rp ...], ...) khỏi tin nhắn
func StripTags(body string) string {
	return strings.TrimSpace(chatworkTagRe.ReplaceAllString(body, ""))
}

// PostRoomMessage gửi tin nhắn vào room
func (s *ChatworkService) PostRoomMessage(roomID int64, text string) error {
	form := url.Values{}
	form.Set("body", text)

	endpoint := fmt.Sprintf("https://api.chatwork.com/v2/rooms/%d/messages", roomID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("X-ChatWorkToken", s.APIToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Chatwork API trả về status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
