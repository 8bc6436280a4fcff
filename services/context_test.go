package services

import (
	"testing"
	"time"

	"relay/models"
	"relay/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Conversation{}, &models.ExternalLog{}, &models.Reminder{}))
	return db
}

func TestSearchEmptyStoreReturnsEmpty(t *testing.T) {
	t.Parallel()

	r := NewContextRetriever(newTestDB(t), logger.NewNopLogger())

	got := r.Search([]string{"東京", "オフィス"}, "web_1", 5)
	assert.Empty(t, got)

	got = r.Search(nil, "web_1", 5)
	assert.Empty(t, got)
}

// Trên sqlite các chiến lược Postgres (&&, ILIKE) fail từng cái một;
// Search vẫn phải hoàn thành và rơi về chiến lược recent.
func TestSearchStrategyFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Conversation{
		UserID:      "web_1",
		UserMessage: "東京オフィスはどこですか",
		AIResponse:  "新宿区です",
	}).Error)

	r := NewContextRetriever(db, logger.NewNopLogger())

	got := r.Search([]string{"東京"}, "web_1", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "東京オフィスはどこですか", got[0].Message)
}

func TestMergeAndRankTierBeforeRecency(t *testing.T) {
	t.Parallel()

	older := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	records := []ContextRecord{
		{Message: "substring match mới hơn rất nhiều so với bản kia", CreatedAt: newer, Priority: tierSubstring},
		{Message: "keyword array match cũ hơn nhưng tier cao", CreatedAt: older, Priority: tierKeywordArray},
	}

	got := MergeAndRank(records, 5)
	require.Len(t, got, 2)
	assert.Equal(t, tierKeywordArray, got[0].Priority, "trùng mảng keyword phải xếp trước khớp chuỗi con")
	assert.Equal(t, tierSubstring, got[1].Priority)
}

func TestMergeAndRankDeduplicates(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	msg := "社内Wi-Fiのパスワードを教えてください。ゲスト用も知りたいです。"

	records := []ContextRecord{
		{Message: msg, CreatedAt: ts, Priority: tierKeywordArray},
		{Message: msg, CreatedAt: ts, Priority: tierSubstring},
	}

	got := MergeAndRank(records, 5)
	require.Len(t, got, 1)
	// Bản ghi tier tốt hơn được giữ lại
	assert.Equal(t, tierKeywordArray, got[0].Priority)
}

func TestMergeAndRankNearDuplicates(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	records := []ContextRecord{
		{Message: "会議室の予約方法を教えてください", CreatedAt: ts, Priority: tierKeywordArray},
		{Message: "会議室の予約方法を教えてください!", CreatedAt: ts, Priority: tierSubstring},
	}

	got := MergeAndRank(records, 5)
	require.Len(t, got, 1)
}

func TestMergeAndRankTruncatesToLimit(t *testing.T) {
	t.Parallel()

	var records []ContextRecord
	for i := 0; i < 10; i++ {
		records = append(records, ContextRecord{
			Message:   time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).String(),
			CreatedAt: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Priority:  tierRecent,
		})
	}

	got := MergeAndRank(records, 3)
	assert.Len(t, got, 3)
	// Cùng tier thì mới nhất xếp trước
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}
