package services

import (
	"time"

	"relay/errors"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// CheckAdminPassword so sánh mật khẩu admin với bcrypt hash trong env
func CheckAdminPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateAdminToken tạo JWT HS256 cho admin, hạn 24h
func GenerateAdminToken(secret string) (string, error) {
	if secret == "" {
		return "", errors.NewAppError(errors.ErrCodeConfigMissing, "JWT_SECRET chưa cấu hình", nil)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// VerifyAdminToken kiểm tra JWT admin
func VerifyAdminToken(tokenString, secret string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "thuật toán ký không hợp lệ", nil)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidToken, "token không hợp lệ", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.NewAppError(errors.ErrCodeInvalidToken, "token không hợp lệ", nil)
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.NewAppError(errors.ErrCodeUnauthorized, "không có quyền admin", nil)
	}
	return nil
}
