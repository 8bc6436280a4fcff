package models

import "time"

// ExternalLog lưu mọi tin nhắn đến từ LINE / Chatwork (append-only, phục vụ audit)
type ExternalLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Platform  string    `gorm:"index;not null" json:"platform"` // line | chatwork
	SourceID  string    `gorm:"index" json:"source_id"`         // room / group / user gốc
	UserID    string    `gorm:"index" json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	RawData   string    `gorm:"type:jsonb" json:"raw_data"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
