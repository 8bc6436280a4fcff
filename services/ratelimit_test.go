package services

import (
	"testing"

	"relay/services/logger"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterMemoryFallback(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(nil, 3, logger.NewNopLogger())

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("web_1"), "request %d phải được cho qua", i+1)
	}
	assert.False(t, l.Allow("web_1"), "request thứ 4 trong cùng phút phải bị chặn")

	// User khác có quota riêng
	assert.True(t, l.Allow("web_2"))
}

func TestRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(nil, 0, logger.NewNopLogger())
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("web_1"))
	}
}
