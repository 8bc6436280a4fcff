package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"relay/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/stats", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func getStats(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareOpenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	router := newProtectedRouter()

	w := getStats(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsWithoutToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newProtectedRouter()

	assert.Equal(t, http.StatusUnauthorized, getStats(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, getStats(router, "Bearer garbage").Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newProtectedRouter()

	token, err := services.GenerateAdminToken("test-secret")
	require.NoError(t, err)

	w := getStats(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsTokenSignedWithOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newProtectedRouter()

	token, err := services.GenerateAdminToken("other-secret")
	require.NoError(t, err)

	w := getStats(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
