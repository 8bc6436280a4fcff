package jobs

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderSweeper định nghĩa interface cho việc quét và gửi reminder đến hạn
type ReminderSweeper interface {
	SweepDueReminders(now time.Time)
}

var reminderSweeper ReminderSweeper

// SetReminderSweeper thiết lập implementation cho ReminderSweeper
func SetReminderSweeper(sweeper ReminderSweeper) {
	reminderSweeper = sweeper
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron) error {
	if os.Getenv("DISABLE_REMINDER_SWEEP") == "1" {
		log.Println("ℹ️ Reminder sweep đã bị tắt qua DISABLE_REMINDER_SWEEP")
		return nil
	}

	// Quét reminder mỗi phút
	_, err := c.AddFunc("* * * * *", func() {
		if reminderSweeper == nil {
			return
		}
		reminderSweeper.SweepDueReminders(time.Now())
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
