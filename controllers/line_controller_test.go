package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"relay/dto"
	"relay/models"
	"relay/services"
	"relay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testLineSecret = "test-channel-secret"

func signLineRequest(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newLineRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	nop := logger.NewNopLogger()
	pipeline, conversations := newTestPipeline(db)
	line := &services.LineService{
		ChannelSecret: testLineSecret,
		AccessToken:   "test-access-token",
		HTTP:          http.DefaultClient,
		Logger:        nop,
	}
	reminders := services.NewReminderService(db, line, nop)
	ctl := NewLineController(line, pipeline, reminders, conversations, nop)

	router := gin.New()
	router.POST("/api/line/webhook", ctl.Webhook)
	return router
}

func postLineWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/line/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLineWebhookRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	router := newLineRouter(t, db)

	body := []byte(`{"events":[{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},"message":{"type":"text","id":"m1","text":"こんにちは"}}]}`)

	tests := []struct {
		name      string
		signature string
	}{
		{"no signature", ""},
		{"wrong secret", signLineRequest("other-secret", body)},
		{"garbage", "not-base64!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLineWebhook(router, body, tt.signature)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Không có dòng nào được ghi: cả conversations lẫn external_logs
	var convCount, logCount int64
	db.Model(&models.Conversation{}).Count(&convCount)
	db.Model(&models.ExternalLog{}).Count(&logCount)
	assert.Zero(t, convCount)
	assert.Zero(t, logCount)
}

func TestLineWebhookUnparsableBodyStill200(t *testing.T) {
	db := newTestDB(t)
	router := newLineRouter(t, db)

	body := []byte(`{"events": broken`)
	w := postLineWebhook(router, body, signLineRequest(testLineSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestLineWebhookUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	nop := logger.NewNopLogger()
	pipeline, conversations := newTestPipeline(db)
	line := &services.LineService{HTTP: http.DefaultClient, Logger: nop}
	ctl := NewLineController(line, pipeline, services.NewReminderService(db, nil, nop), conversations, nop)

	router := gin.New()
	router.POST("/api/line/webhook", ctl.Webhook)

	w := postLineWebhook(router, []byte(`{}`), "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLineSourceID(t *testing.T) {
	require.Equal(t, "G1", lineSourceID(dto.LineSource{Type: "group", UserID: "U1", GroupID: "G1"}))
	require.Equal(t, "R1", lineSourceID(dto.LineSource{Type: "room", UserID: "U1", RoomID: "R1"}))
	require.Equal(t, "U1", lineSourceID(dto.LineSource{Type: "user", UserID: "U1"}))
}
