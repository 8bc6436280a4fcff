package services

import (
	"regexp"
	"strings"

	"relay/errors"
	"relay/services/logger"

	"github.com/fiam/gounidecode/unidecode"
	json "github.com/goccy/go-json"
)

const maxKeywords = 5

// Các regex tách token theo hệ chữ viết, dùng cho đường fallback
var (
	katakanaRe = regexp.MustCompile(`[ァ-ヶー]{2,}`)
	kanjiRe    = regexp.MustCompile(`[一-龯々]{2,}`)
	latinRe    = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9._-]+`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"`)
)

// Stop word: trợ từ / từ chức năng tiếng Nhật và tiếng Anh hay gặp
var keywordStopWords = map[string]bool{
	"こと": true, "もの": true, "ため": true, "それ": true, "これ": true,
	"あれ": true, "どれ": true, "ここ": true, "そこ": true, "どこ": true,
	"いつ": true, "です": true, "ます": true, "ました": true, "ください": true,
	"して": true, "する": true, "ある": true, "いる": true, "なる": true,
	"から": true, "まで": true, "について": true, "お願い": true, "教えて": true,
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "what": true, "where": true, "when": true, "how": true,
	"is": true, "are": true, "was": true, "please": true, "tell": true,
}

// KeywordService trích xuất từ khóa tìm kiếm từ tin nhắn của user
type KeywordService struct {
	AI     *AIClient
	Logger logger.Logger
}

// NewKeywordService tạo KeywordService
func NewKeywordService(ai *AIClient, log logger.Logger) *KeywordService {
	return &KeywordService{AI: ai, Logger: log}
}

// Extract trả về tối đa 5 từ khóa. Không bao giờ trả lỗi:
// LLM gọi được thì dùng LLM, còn lại rơi về tách token bằng regex.
func (s *KeywordService) Extract(message string) []string {
	if strings.TrimSpace(message) == "" {
		return []string{}
	}

	if s.AI.Available() {
		keywords, err := s.extractWithAI(message)
		if err == nil && len(keywords) > 0 {
			return keywords
		}
		if err != nil {
			s.Logger.Error("trích xuất keyword bằng AI thất bại, chuyển sang fallback: %v", err)
		}
	}

	return FallbackKeywords(message)
}

const keywordExtractionPrompt = `以下のメッセージから検索に使えるキーワードを最大5個抽出し、
{"keywords": ["キーワード1", "キーワード2"]} というJSONだけを返してください。
余計な説明文は一切付けないでください。

メッセージ: %s`

func (s *KeywordService) extractWithAI(message string) ([]string, *errors.AppError) {
	prompt := strings.Replace(keywordExtractionPrompt, "%s", message, 1)

	reply, err := s.AI.Chat([]AIMessage{
		{Role: "system", Content: "あなたはキーワード抽出エンジンです。JSONのみを返します。"},
		{Role: "user", Content: prompt},
	}, 200, 0.0)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	// Model đôi khi bọc JSON trong text, cắt lấy đoạn {...} đầu tiên
	raw := reply
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			raw = raw[i : j+1]
		}
	}
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr == nil && len(parsed.Keywords) > 0 {
		return sanitizeKeywords(parsed.Keywords), nil
	}

	// Parse hỏng: vớt các chuỗi trong dấu nháy từ reply thô
	var recovered []string
	for _, m := range quotedRe.FindAllStringSubmatch(reply, -1) {
		if m[1] == "keywords" {
			continue
		}
		recovered = append(recovered, m[1])
		if len(recovered) >= maxKeywords {
			break
		}
	}
	if len(recovered) > 0 {
		return sanitizeKeywords(recovered), nil
	}

	return nil, errors.NewAppError(errors.ErrCodeAIBadResponse, "không parse được keywords từ reply", nil)
}

// FallbackKeywords tách token bằng regex theo hệ chữ viết,
// bỏ token ngắn hơn 2 ký tự và stop word, lấy tối đa 5 từ.
// Các chuỗi thuần hiragana bị bỏ: gần như toàn trợ từ / đuôi động từ,
// không có giá trị tìm kiếm.
func FallbackKeywords(message string) []string {
	var tokens []string
	tokens = append(tokens, katakanaRe.FindAllString(message, -1)...)
	tokens = append(tokens, kanjiRe.FindAllString(message, -1)...)
	for _, t := range latinRe.FindAllString(message, -1) {
		// Gập dấu (accent) về ASCII cho token latin để khớp tìm kiếm rộng hơn
		tokens = append(tokens, strings.ToLower(unidecode.Unidecode(t)))
	}

	return sanitizeKeywords(tokens)
}

func sanitizeKeywords(tokens []string) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if len([]rune(t)) < 2 {
			continue
		}
		if keywordStopWords[t] || keywordStopWords[strings.ToLower(t)] {
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
		if len(result) >= maxKeywords {
			break
		}
	}
	return result
}
