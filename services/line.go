package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"relay/config"
	"relay/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	json "github.com/goccy/go-json"
)

const (
	lineAPIBase     = "https://api.line.me/v2/bot"
	lineDataAPIBase = "https://api-data.line.me/v2/bot"
)

// LineService gọi LINE Messaging API: verify chữ ký webhook,
// reply / push message, tải content của tin nhắn ảnh / file.
type LineService struct {
	ChannelSecret string
	AccessToken   string
	Cloudinary    *cloudinary.Cloudinary // có thể nil
	HTTP          *http.Client
	Logger        logger.Logger
}

// NewLineServiceFromEnv tạo LineService từ biến môi trường
func NewLineServiceFromEnv(cld *cloudinary.Cloudinary, log logger.Logger) *LineService {
	return &LineService{
		ChannelSecret: config.GetEnv("LINE_CHANNEL_SECRET"),
		AccessToken:   config.GetEnv("LINE_CHANNEL_ACCESS_TOKEN"),
		Cloudinary:    cld,
		HTTP:          &http.Client{Timeout: 15 * time.Second},
		Logger:        log,
	}
}

// Configured cho biết kênh LINE có đủ credential không
func (s *LineService) Configured() bool {
	return s != nil && s.ChannelSecret != "" && s.AccessToken != ""
}

// VerifySignature kiểm tra X-Line-Signature: HMAC-SHA256 của body
// bằng channel secret, so sánh base64
func (s *LineService) VerifySignature(body []byte, signature string) bool {
	if s.ChannelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.ChannelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ReplyMessage trả lời bằng reply token (chỉ dùng được một lần, hết hạn nhanh)
func (s *LineService) ReplyMessage(replyToken, text string) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	return s.post(lineAPIBase+"/message/reply", payload)
}

// PushMessage gửi tin nhắn chủ động đến user
func (s *LineService) PushMessage(to, text string) error {
	payload := map[string]interface{}{
		"to": to,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	return s.post(lineAPIBase+"/message/push", payload)
}

func (s *LineService) post(url string, payload interface{}) error {
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("LINE API trả về status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// FetchContent tải nội dung của tin nhắn ảnh / file từ LINE content API
func (s *LineService) FetchContent(messageID string) ([]byte, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/message/%s/content", lineDataAPIBase, messageID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LINE content API trả về status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// UploadAttachment tải content lên Cloudinary, trả về URL.
// Cloudinary chưa cấu hình thì trả chuỗi rỗng, không coi là lỗi.
func (s *LineService) UploadAttachment(messageID string) string {
	if s.Cloudinary == nil {
		return ""
	}

	data, err := s.FetchContent(messageID)
	if err != nil {
		s.Logger.Error("tải content LINE %s thất bại: %v", messageID, err)
		return ""
	}

	resp, err := s.Cloudinary.Upload.Upload(context.Background(), bytes.NewReader(data), uploader.UploadParams{Folder: "line-attachments"})
	if err != nil {
		s.Logger.Error("upload Cloudinary thất bại (message=%s): %v", messageID, err)
		return ""
	}
	return resp.SecureURL
}
