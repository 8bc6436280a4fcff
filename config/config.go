package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv nạp biến môi trường từ tệp `.env`
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}
}

// GetEnv lấy biến môi trường
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault lấy biến môi trường, trả về giá trị mặc định nếu rỗng
func GetEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// GetEnvInt lấy biến môi trường dạng số nguyên
func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q không phải số, dùng mặc định %d", key, v, def)
		return def
	}
	return n
}

// ValidateRequiredEnv kiểm tra các biến môi trường bắt buộc.
// DATABASE_URL và AI_API_KEY thiếu thì không cho khởi động,
// các credential còn lại thiếu chỉ tắt tính năng tương ứng.
func ValidateRequiredEnv() error {
	for _, key := range []string{"DATABASE_URL", "AI_API_KEY"} {
		if os.Getenv(key) == "" {
			return fmt.Errorf("thiếu biến môi trường bắt buộc: %s", key)
		}
	}

	optional := []string{
		"LINE_CHANNEL_SECRET", "LINE_CHANNEL_ACCESS_TOKEN",
		"CHATWORK_WEBHOOK_TOKEN", "CHATWORK_API_TOKEN",
		"CLOUDINARY_URL", "REDIS_ADDR", "JWT_SECRET",
	}
	for _, key := range optional {
		if os.Getenv(key) == "" {
			log.Printf("ℹ️ %s chưa cấu hình, tính năng liên quan sẽ bị tắt", key)
		}
	}
	return nil
}
