package validator

import (
	"strings"
	"testing"

	"relay/dto"
	"relay/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChatRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.ChatRequest
		wantCode errors.ErrorCode
	}{
		{"valid", dto.ChatRequest{UserID: "web_1", Message: "東京オフィスはどこですか"}, ""},
		{"empty user_id", dto.ChatRequest{Message: "hello"}, errors.ErrCodeRequiredField},
		{"blank user_id", dto.ChatRequest{UserID: "  ", Message: "hello"}, errors.ErrCodeRequiredField},
		{"empty message", dto.ChatRequest{UserID: "web_1"}, errors.ErrCodeRequiredField},
		{"blank message", dto.ChatRequest{UserID: "web_1", Message: " \t "}, errors.ErrCodeRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatRequest(&tt.req)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode))
		})
	}
}

func TestValidateChatRequestLength(t *testing.T) {
	t.Setenv("MAX_MESSAGE_LENGTH", "10")

	ok := dto.ChatRequest{UserID: "u", Message: strings.Repeat("あ", 10)}
	assert.NoError(t, ValidateChatRequest(&ok))

	tooLong := dto.ChatRequest{UserID: "u", Message: strings.Repeat("あ", 11)}
	err := ValidateChatRequest(&tooLong)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageTooBig))
}

func TestValidateFeedbackRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.FeedbackRequest
		wantCode errors.ErrorCode
	}{
		{"valid low", dto.FeedbackRequest{ConversationID: 1, Rating: 1}, ""},
		{"valid high", dto.FeedbackRequest{ConversationID: 1, Rating: 5}, ""},
		{"missing id", dto.FeedbackRequest{Rating: 3}, errors.ErrCodeRequiredField},
		{"rating zero", dto.FeedbackRequest{ConversationID: 1}, errors.ErrCodeInvalidRating},
		{"rating six", dto.FeedbackRequest{ConversationID: 1, Rating: 6}, errors.ErrCodeInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeedbackRequest(&tt.req)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode))
		})
	}
}
