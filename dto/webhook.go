package dto

// LineWebhookBody là payload webhook từ LINE platform
type LineWebhookBody struct {
	Destination string          `json:"destination"`
	Events      []LineEvent     `json:"events"`
}

type LineEvent struct {
	Type       string      `json:"type"` // message | follow | ...
	ReplyToken string      `json:"replyToken"`
	Timestamp  int64       `json:"timestamp"`
	Source     LineSource  `json:"source"`
	Message    LineMessage `json:"message"`
}

type LineSource struct {
	Type    string `json:"type"` // user | group | room
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	RoomID  string `json:"roomId"`
}

type LineMessage struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // text | image | file | ...
	Text     string `json:"text"`
	FileName string `json:"fileName"`
}

// ChatworkWebhookBody là payload webhook từ Chatwork
type ChatworkWebhookBody struct {
	WebhookSettingID string              `json:"webhook_setting_id"`
	WebhookEventType string              `json:"webhook_event_type"` // message_created | mention_to_me
	WebhookEventTime int64               `json:"webhook_event_time"`
	WebhookEvent     ChatworkEvent       `json:"webhook_event"`
}

type ChatworkEvent struct {
	MessageID string `json:"message_id"`
	RoomID    int64  `json:"room_id"`
	AccountID int64  `json:"account_id"`
	Body      string `json:"body"`
	SendTime  int64  `json:"send_time"`
}
