package services

import (
	"testing"

	"relay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatsEmpty(t *testing.T) {
	t.Parallel()
	svc := NewStatsService(newTestDB(t))

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalConversations)
	assert.Zero(t, stats.ExternalLogs)
	assert.Empty(t, stats.ByPlatform)
}

func TestGetStatsAggregates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewStatsService(db)

	rating := 4
	rows := []models.Conversation{
		{UserID: "web_1", UserMessage: "q1", AIResponse: "a1", SourcePlatform: "web", ResponseTimeMs: 100},
		{UserID: "web_2", UserMessage: "q2", AIResponse: "a2", SourcePlatform: "web", ResponseTimeMs: 300},
		{UserID: "line_U1", UserMessage: "q3", AIResponse: "a3", SourcePlatform: "line", ResponseTimeMs: 200, SatisfactionRating: &rating},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
	require.NoError(t, db.Create(&models.ExternalLog{Platform: "line", SourceID: "U1", UserID: "line_U1", Message: "hi"}).Error)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalConversations)
	assert.Equal(t, int64(2), stats.ByPlatform["web"])
	assert.Equal(t, int64(1), stats.ByPlatform["line"])
	assert.InDelta(t, 200.0, stats.AvgResponseTimeMs, 0.01)
	assert.InDelta(t, 4.0, stats.AvgSatisfaction, 0.01)
	assert.Equal(t, int64(1), stats.ExternalLogs)
}
