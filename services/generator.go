package services

import (
	"fmt"
	"strings"

	"relay/services/logger"
)

const (
	contextFieldLimit   = 200 // số ký tự tối đa cho mỗi trường khi nhúng vào prompt
	fallbackContextShow = 2   // số context tối đa đưa vào câu trả lời fallback
)

// ResponseGenerator tạo câu trả lời: ưu tiên LLM, fail thì trả template
type ResponseGenerator struct {
	AI     *AIClient
	Logger logger.Logger
}

// NewResponseGenerator tạo ResponseGenerator
func NewResponseGenerator(ai *AIClient, log logger.Logger) *ResponseGenerator {
	return &ResponseGenerator{AI: ai, Logger: log}
}

// Generate tạo câu trả lời từ tin nhắn + context. Trả về (text, usedFallback).
// Không bao giờ trả lỗi cho caller.
func (g *ResponseGenerator) Generate(message string, context []ContextRecord) (string, bool) {
	if !g.AI.Available() {
		return FallbackResponse(context, "AIサービスの認証情報"), true
	}

	prompt := BuildPrompt(message, context)
	reply, err := g.AI.Chat([]AIMessage{
		{Role: "system", Content: "あなたは社内情報に詳しいアシスタントです。"},
		{Role: "user", Content: prompt},
	}, 1000, 0.7)
	if err != nil {
		g.Logger.Error("mọi model đều fail, chuyển sang câu trả lời template: %v", err)
		return FallbackResponse(context, "AIサービス"), true
	}
	if reply == "" {
		return FallbackResponse(context, "AIサービス"), true
	}

	return reply, false
}

// BuildPrompt nhúng context đã truncate vào prompt chỉ dẫn.
// Yêu cầu model ưu tiên thông tin cụ thể (URL, tên file, ngày) trong context.
func BuildPrompt(message string, context []ContextRecord) string {
	var b strings.Builder

	if len(context) > 0 {
		b.WriteString("以下は過去の関連する会話です。回答の参考にしてください。\n")
		b.WriteString("特にURL・ファイル名・日付などの具体的な情報があれば優先して使ってください。\n\n")
		for i, rec := range context {
			b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, rec.CreatedAt.Format("2006-01-02")))
			b.WriteString("質問: " + truncateRunes(rec.Message, contextFieldLimit) + "\n")
			if rec.Response != "" {
				b.WriteString("回答: " + truncateRunes(rec.Response, contextFieldLimit) + "\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("ユーザーからの質問:\n")
	b.WriteString(message)
	return b.String()
}

// FallbackResponse tạo câu trả lời khi không gọi được LLM.
// Có context thì tóm tắt tối đa 2 dòng kèm ngày, không có thì báo dịch vụ
// chưa sẵn sàng kèm tên prerequisite còn thiếu.
func FallbackResponse(context []ContextRecord, missing string) string {
	if len(context) == 0 {
		return fmt.Sprintf("申し訳ありません。現在AI応答サービスを利用できません（%sが設定されていません）。しばらくしてからもう一度お試しください。", missing)
	}

	var b strings.Builder
	b.WriteString("現在AI応答サービスに接続できないため、過去の関連する会話をご案内します。\n\n")
	for i, rec := range context {
		if i >= fallbackContextShow {
			break
		}
		b.WriteString(fmt.Sprintf("・%s の会話: %s\n", rec.CreatedAt.Format("2006-01-02"), truncateRunes(rec.Message, 100)))
		if rec.Response != "" {
			b.WriteString("  " + truncateRunes(rec.Response, 100) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
