package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RepeatOnce     = "once"
	RepeatDaily    = "daily"
	RepeatWeekdays = "weekdays"
	RepeatWeekends = "weekends"
	RepeatWeekly   = "weekly"
)

// Reminder lưu lịch nhắc nhở do user đăng ký qua lệnh chat
type Reminder struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        string         `gorm:"index;not null" json:"user_id"`
	Message       string         `gorm:"not null" json:"message"`
	ReminderTime  string         `gorm:"type:varchar(5);not null" json:"reminder_time"` // "HH:MM"
	RepeatPattern string         `gorm:"default:once" json:"repeat_pattern"`
	RepeatDays    pq.StringArray `gorm:"type:text[]" json:"repeat_days"` // mon..sun, chỉ dùng cho weekly
	LastSentDate  *time.Time     `json:"last_sent_date,omitempty"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
