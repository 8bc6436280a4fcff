package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"relay/models"
	"relay/services/logger"

	"gorm.io/gorm"
)

// ReminderSender gửi nội dung nhắc nhở đến user (thực tế là LINE push)
type ReminderSender interface {
	PushMessage(to, text string) error
}

// Bảng regex parse lệnh リマインダー từ user
var (
	reminderPrefixRe = regexp.MustCompile(`^リマインダー[\s　]*`)
	reminderListRe   = regexp.MustCompile(`^リマインダー[\s　]*一覧`)
	reminderDeleteRe = regexp.MustCompile(`^リマインダー[\s　]*削除[\s　]*([0-9]+)`)
	reminderTimeRe   = regexp.MustCompile(`([0-9０-９]{1,2})[:：時]([0-9０-９]{1,2})?`)
	weeklyDayRe      = regexp.MustCompile(`毎週([月火水木金土日])`)
)

var jpWeekdayCodes = map[string]string{
	"月": "mon", "火": "tue", "水": "wed", "木": "thu",
	"金": "fri", "土": "sat", "日": "sun",
}

var weekdayCodes = map[time.Weekday]string{
	time.Monday: "mon", time.Tuesday: "tue", time.Wednesday: "wed",
	time.Thursday: "thu", time.Friday: "fri", time.Saturday: "sat", time.Sunday: "sun",
}

// ReminderService parse lệnh nhắc nhở và chạy sweep định kỳ
type ReminderService struct {
	DB       *gorm.DB
	Sender   ReminderSender
	Logger   logger.Logger
	Location *time.Location
}

// NewReminderService tạo ReminderService, dùng múi giờ Asia/Tokyo
func NewReminderService(db *gorm.DB, sender ReminderSender, logg logger.Logger) *ReminderService {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		log.Printf("❌ Lỗi khi tải múi giờ: %v", err)
		loc = time.UTC
	}
	return &ReminderService{DB: db, Sender: sender, Logger: logg, Location: loc}
}

// IsReminderCommand kiểm tra tin nhắn có phải lệnh リマインダー không
func IsReminderCommand(text string) bool {
	return reminderPrefixRe.MatchString(strings.TrimSpace(text))
}

// HandleCommand xử lý lệnh reminder từ user, trả về reply gửi lại cho user.
// Các dạng lệnh:
//
//	リマインダー 8:00 薬を飲む          (một lần)
//	リマインダー 毎日 8:00 薬を飲む      (hằng ngày)
//	リマインダー 平日 9:00 朝会          (ngày làm việc)
//	リマインダー 週末 10:00 買い物       (cuối tuần)
//	リマインダー 毎週月 8:30 ゴミ出し    (hằng tuần theo thứ)
//	リマインダー 一覧 / リマインダー 削除 3
func (s *ReminderService) HandleCommand(userID, text string) string {
	text = strings.TrimSpace(text)

	if reminderListRe.MatchString(text) {
		return s.listReminders(userID)
	}
	if m := reminderDeleteRe.FindStringSubmatch(text); m != nil {
		id, _ := strconv.Atoi(m[1])
		return s.deactivateReminder(userID, uint(id))
	}

	reminder, err := ParseReminderCommand(userID, text)
	if err != nil {
		return "リマインダーの形式が認識できませんでした。\n例: リマインダー 毎日 8:00 薬を飲む"
	}

	if dbErr := s.DB.Create(reminder).Error; dbErr != nil {
		s.Logger.Error("lưu reminder thất bại (user=%s): %v", userID, dbErr)
		return "リマインダーの登録に失敗しました。もう一度お試しください。"
	}

	return fmt.Sprintf("リマインダーを登録しました（%s %s）: %s",
		repeatPatternLabel(reminder.RepeatPattern, reminder.RepeatDays), reminder.ReminderTime, reminder.Message)
}

// ParseReminderCommand parse lệnh thành Reminder record
func ParseReminderCommand(userID, text string) (*models.Reminder, error) {
	body := reminderPrefixRe.ReplaceAllString(strings.TrimSpace(text), "")

	pattern := models.RepeatOnce
	var repeatDays []string

	switch {
	case strings.Contains(body, "毎日"):
		pattern = models.RepeatDaily
		body = strings.Replace(body, "毎日", "", 1)
	case strings.Contains(body, "平日"):
		pattern = models.RepeatWeekdays
		body = strings.Replace(body, "平日", "", 1)
	case strings.Contains(body, "週末"):
		pattern = models.RepeatWeekends
		body = strings.Replace(body, "週末", "", 1)
	default:
		if m := weeklyDayRe.FindStringSubmatch(body); m != nil {
			pattern = models.RepeatWeekly
			repeatDays = []string{jpWeekdayCodes[m[1]]}
			body = strings.Replace(body, m[0], "", 1)
		}
	}

	timeMatch := reminderTimeRe.FindStringSubmatch(body)
	if timeMatch == nil {
		return nil, fmt.Errorf("không tìm thấy giờ trong lệnh")
	}
	hour, err := strconv.Atoi(normalizeDigits(timeMatch[1]))
	if err != nil || hour > 23 {
		return nil, fmt.Errorf("giờ không hợp lệ")
	}
	minute := 0
	if timeMatch[2] != "" {
		minute, err = strconv.Atoi(normalizeDigits(timeMatch[2]))
		if err != nil || minute > 59 {
			return nil, fmt.Errorf("phút không hợp lệ")
		}
	}

	message := strings.TrimSpace(reminderTimeRe.ReplaceAllString(body, ""))
	if message == "" {
		return nil, fmt.Errorf("không có nội dung nhắc nhở")
	}

	return &models.Reminder{
		UserID:        userID,
		Message:       message,
		ReminderTime:  fmt.Sprintf("%02d:%02d", hour, minute),
		RepeatPattern: pattern,
		RepeatDays:    repeatDays,
		IsActive:      true,
	}, nil
}

func (s *ReminderService) listReminders(userID string) string {
	var reminders []models.Reminder
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).Order("id").Find(&reminders).Error; err != nil {
		s.Logger.Error("lấy danh sách reminder thất bại (user=%s): %v", userID, err)
		return "リマインダーの取得に失敗しました。"
	}
	if len(reminders) == 0 {
		return "登録されているリマインダーはありません。"
	}

	var b strings.Builder
	b.WriteString("登録中のリマインダー:\n")
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("[%d] %s %s %s\n", r.ID, repeatPatternLabel(r.RepeatPattern, r.RepeatDays), r.ReminderTime, r.Message))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ReminderService) deactivateReminder(userID string, id uint) string {
	result := s.DB.Model(&models.Reminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil || result.RowsAffected == 0 {
		return fmt.Sprintf("リマインダー %d が見つかりませんでした。", id)
	}
	return fmt.Sprintf("リマインダー %d を削除しました。", id)
}

// ListByUser trả về reminder của một user (cho admin), userID rỗng thì lấy tất cả
func (s *ReminderService) ListByUser(userID string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	query := s.DB.Order("id")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// SweepDueReminders chạy mỗi phút từ cron: gửi các reminder đến hạn,
// reminder một lần thì tắt, reminder lặp thì ghi last_sent_date.
// Chỉ chia sẻ store với request path, không chia sẻ state in-memory.
func (s *ReminderService) SweepDueReminders(now time.Time) {
	if s.Sender == nil {
		// LINE chưa cấu hình thì để nguyên reminder, không advance lịch
		return
	}

	now = now.In(s.Location)

	var reminders []models.Reminder
	if err := s.DB.Where("is_active = ?", true).Find(&reminders).Error; err != nil {
		s.Logger.Error("sweep: đọc reminders thất bại: %v", err)
		return
	}

	for _, r := range reminders {
		if !s.isDue(&r, now) {
			continue
		}

		if err := s.Sender.PushMessage(r.UserID, "🔔 リマインダー: "+r.Message); err != nil {
			s.Logger.Error("sweep: gửi reminder %d thất bại: %v", r.ID, err)
			continue
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
		updates := map[string]interface{}{"last_sent_date": today}
		if r.RepeatPattern == models.RepeatOnce {
			updates["is_active"] = false
		}
		if err := s.DB.Model(&models.Reminder{}).Where("id = ?", r.ID).Updates(updates).Error; err != nil {
			s.Logger.Error("sweep: cập nhật reminder %d thất bại: %v", r.ID, err)
		}
	}
}

// isDue: giờ đã qua trong ngày, hôm nay chưa gửi, và pattern khớp thứ
func (s *ReminderService) isDue(r *models.Reminder, now time.Time) bool {
	parts := strings.Split(r.ReminderTime, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}

	due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(due) {
		return false
	}

	if r.LastSentDate != nil {
		last := r.LastSentDate.In(now.Location())
		if last.Year() == now.Year() && last.YearDay() == now.YearDay() {
			return false
		}
	}

	switch r.RepeatPattern {
	case models.RepeatOnce, models.RepeatDaily:
		return true
	case models.RepeatWeekdays:
		wd := now.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case models.RepeatWeekends:
		wd := now.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case models.RepeatWeekly:
		code := weekdayCodes[now.Weekday()]
		for _, d := range r.RepeatDays {
			if d == code {
				return true
			}
		}
		return false
	}
	return false
}

func repeatPatternLabel(pattern string, days []string) string {
	switch pattern {
	case models.RepeatDaily:
		return "毎日"
	case models.RepeatWeekdays:
		return "平日"
	case models.RepeatWeekends:
		return "週末"
	case models.RepeatWeekly:
		jp := map[string]string{"mon": "月", "tue": "火", "wed": "水", "thu": "木", "fri": "金", "sat": "土", "sun": "日"}
		var b strings.Builder
		b.WriteString("毎週")
		for _, d := range days {
			b.WriteString(jp[d])
		}
		return b.String()
	}
	return "一回"
}

// normalizeDigits đổi số full-width (０-９) về half-width
func normalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '０' && r <= '９' {
			b.WriteRune('0' + (r - '０'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
