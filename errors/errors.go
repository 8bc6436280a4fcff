package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Config errors
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"

	// AI errors
	ErrCodeAIMissingKey  ErrorCode = "AI_MISSING_KEY"
	ErrCodeAIBadModel    ErrorCode = "AI_BAD_MODEL"
	ErrCodeAITransport   ErrorCode = "AI_TRANSPORT"
	ErrCodeAIBadResponse ErrorCode = "AI_BAD_RESPONSE"
	ErrCodeAIUnavailable ErrorCode = "AI_UNAVAILABLE"

	// Database errors
	ErrCodeDBError    ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound ErrorCode = "DB_NOT_FOUND"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidRating ErrorCode = "INVALID_RATING"
	ErrCodeMessageTooBig ErrorCode = "MESSAGE_TOO_BIG"

	// Webhook errors
	ErrCodeBadSignature ErrorCode = "BAD_SIGNATURE"
	ErrCodeBadToken     ErrorCode = "BAD_TOKEN"

	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Rate limit
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode kiểm tra error có đúng mã lỗi không
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrReminderNotFound     = errors.New("reminder not found")
	ErrInvalidInput         = errors.New("invalid input")
)
