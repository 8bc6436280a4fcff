package controllers

import (
	"io"
	"net/http"

	"relay/dto"
	"relay/response"
	"relay/services"
	"relay/services/logger"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

const lineApologyMessage = "申し訳ありません。処理中にエラーが発生しました。しばらくしてからもう一度お試しください。"

// LineController xử lý webhook từ LINE platform
type LineController struct {
	Line      *services.LineService
	Pipeline  *services.ChatPipeline
	Reminders *services.ReminderService
	Conv      *services.ConversationService
	Logger    logger.Logger
}

// NewLineController tạo LineController
func NewLineController(line *services.LineService, pipeline *services.ChatPipeline, reminders *services.ReminderService, conv *services.ConversationService, log logger.Logger) *LineController {
	return &LineController{Line: line, Pipeline: pipeline, Reminders: reminders, Conv: conv, Logger: log}
}

// Webhook là handler của POST /api/line/webhook
func (ctl *LineController) Webhook(c *gin.Context) {
	if !ctl.Line.Configured() {
		response.Error(c, http.StatusServiceUnavailable, "LINE channel chưa cấu hình")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "không đọc được body")
		return
	}

	if !ctl.Line.VerifySignature(body, c.GetHeader("X-Line-Signature")) {
		response.BadRequest(c, "chữ ký không hợp lệ")
		return
	}

	var webhook dto.LineWebhookBody
	if err := json.Unmarshal(body, &webhook); err != nil {
		// Body hỏng nhưng chữ ký đúng: bỏ qua, vẫn trả 200 cho LINE
		ctl.Logger.Error("body webhook LINE không parse được: %v", err)
		c.String(http.StatusOK, "OK")
		return
	}

	for _, event := range webhook.Events {
		ctl.handleEvent(event)
	}

	c.String(http.StatusOK, "OK")
}

func (ctl *LineController) handleEvent(event dto.LineEvent) {
	userID := "line_" + event.Source.UserID
	sourceID := lineSourceID(event.Source)

	switch event.Type {
	case "follow":
		ctl.reply(event, userID, "友だち追加ありがとうございます！質問があればいつでもどうぞ。\n「リマインダー 毎日 8:00 薬を飲む」のように送るとリマインダーも登録できます。")
	case "message":
		ctl.handleMessage(event, userID, sourceID)
	}
}

func (ctl *LineController) handleMessage(event dto.LineEvent, userID, sourceID string) {
	switch event.Message.Type {
	case "text":
		text := event.Message.Text
		ctl.Conv.LogExternal("line", sourceID, userID, "", text, event)

		if services.IsReminderCommand(text) {
			ctl.reply(event, userID, ctl.Reminders.HandleCommand(userID, text))
			return
		}

		result := ctl.Pipeline.Handle(userID, text, "", "line")
		ctl.reply(event, userID, result.ResponseText)

	case "image", "file", "video", "audio":
		url := ctl.Line.UploadAttachment(event.Message.ID)
		message := "[" + event.Message.Type + "]"
		if event.Message.FileName != "" {
			message += " " + event.Message.FileName
		}
		if url != "" {
			message += " " + url
		}
		ctl.Conv.LogExternal("line", sourceID, userID, "", message, event)
		ctl.reply(event, userID, "ファイルを受け取りました。")
	}
}

// reply trả lời qua reply token, fail thì push, push cũng fail thì
// cố gửi lời xin lỗi để user không bị bỏ rơi trong im lặng.
func (ctl *LineController) reply(event dto.LineEvent, userID, text string) {
	if err := ctl.Line.ReplyMessage(event.ReplyToken, text); err != nil {
		ctl.Logger.Error("reply LINE thất bại (user=%s): %v", userID, err)
		if err := ctl.Line.PushMessage(event.Source.UserID, text); err != nil {
			ctl.Logger.Error("push LINE thất bại (user=%s): %v", userID, err)
			if err := ctl.Line.PushMessage(event.Source.UserID, lineApologyMessage); err != nil {
				ctl.Logger.Error("gửi lời xin lỗi cũng thất bại (user=%s): %v", userID, err)
			}
		}
	}
}

func lineSourceID(source dto.LineSource) string {
	switch source.Type {
	case "group":
		return source.GroupID
	case "room":
		return source.RoomID
	default:
		return source.UserID
	}
}
