package services

import (
	"fmt"
	"sync"
	"time"

	"relay/config"
	"relay/services/logger"

	"github.com/redis/go-redis/v9"
)

// RateLimiter giới hạn số request mỗi phút theo user. Có Redis thì dùng
// INCR + EXPIRE (đúng khi chạy nhiều process), không có thì đếm in-memory.
// Cả hai đều chỉ mang tính advisory, không phải guarantee.
type RateLimiter struct {
	RDB    *redis.Client
	Limit  int
	Logger logger.Logger

	mu       sync.Mutex
	counters map[string]*rateWindow
}

type rateWindow struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter tạo RateLimiter, limit <= 0 thì tắt giới hạn
func NewRateLimiter(rdb *redis.Client, limit int, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		RDB:      rdb,
		Limit:    limit,
		Logger:   log,
		counters: make(map[string]*rateWindow),
	}
}

// Allow kiểm tra user còn quota trong phút hiện tại không
func (l *RateLimiter) Allow(userID string) bool {
	if l.Limit <= 0 {
		return true
	}

	if l.RDB != nil {
		allowed, err := l.allowRedis(userID)
		if err == nil {
			return allowed
		}
		l.Logger.Error("rate limiter Redis lỗi, rơi về in-memory: %v", err)
	}

	return l.allowMemory(userID)
}

func (l *RateLimiter) allowRedis(userID string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, time.Now().Format("200601021504"))

	count, err := l.RDB.Incr(config.Ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.RDB.Expire(config.Ctx, key, 90*time.Second)
	}
	return count <= int64(l.Limit), nil
}

func (l *RateLimiter) allowMemory(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.counters[userID]
	if !ok || now.Sub(w.windowStart) >= time.Minute {
		l.counters[userID] = &rateWindow{count: 1, windowStart: now}
		return true
	}

	w.count++
	return w.count <= l.Limit
}
