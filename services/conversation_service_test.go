package services

import (
	"testing"
	"time"

	"relay/models"
	"relay/services/logger"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeContextStringifiesTimestamps(t *testing.T) {
	t.Parallel()

	records := []ContextRecord{
		{
			Message:   "東京オフィスの住所は？",
			Response:  "新宿区です",
			CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			Source:    "web",
		},
	}

	serialized := SerializeContext(records)

	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(serialized), &parsed))
	require.Len(t, parsed, 1)

	createdAt, ok := parsed[0]["created_at"].(string)
	require.True(t, ok, "created_at phải là string sau khi serialize")
	assert.Equal(t, "2024-03-01 10:30:00", createdAt)
	// Không được còn dạng RFC3339 của time.Time
	assert.NotContains(t, serialized, "T10:30:00Z")
}

func TestSerializeContextEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[]", SerializeContext(nil))
}

func TestSaveConversation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewConversationService(db, nil, logger.NewNopLogger())

	ok := svc.Save(&models.Conversation{
		UserID:         "web_1",
		UserMessage:    "こんにちは",
		AIResponse:     "こんにちは！",
		Keywords:       []string{"挨拶"},
		SourcePlatform: "web",
		ResponseTimeMs: 120,
	}, []ContextRecord{{Message: "m", CreatedAt: time.Now()}})
	require.True(t, ok)

	var saved models.Conversation
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, "web_1", saved.UserID)
	assert.Equal(t, "web", saved.SourcePlatform)
	assert.NotEmpty(t, saved.ContextUsed)
	assert.Nil(t, saved.SatisfactionRating)
}

func TestSetRating(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewConversationService(db, nil, logger.NewNopLogger())

	require.True(t, svc.Save(&models.Conversation{
		UserID:      "web_1",
		UserMessage: "q",
		AIResponse:  "a",
	}, nil))

	require.NoError(t, svc.SetRating(1, 4))

	var saved models.Conversation
	require.NoError(t, db.First(&saved).Error)
	require.NotNil(t, saved.SatisfactionRating)
	assert.Equal(t, 4, *saved.SatisfactionRating)

	// Hội thoại không tồn tại
	assert.Error(t, svc.SetRating(999, 3))
}

func TestLogExternal(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewConversationService(db, nil, logger.NewNopLogger())

	ok := svc.LogExternal("line", "U123", "line_U123", "Tanaka", "hello", map[string]string{"type": "text"})
	require.True(t, ok)

	var entry models.ExternalLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "line", entry.Platform)
	assert.Contains(t, entry.RawData, "text")
}
