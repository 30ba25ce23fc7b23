package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"waly/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "s3cret")

	token, err := GenerateToken("user-1", "u@waly.app", time.Hour)
	require.NoError(t, err)

	id, err := ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	withSecret(t, "s3cret")

	token, err := GenerateToken("user-1", "u@waly.app", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestTokenFromOtherSecretIsRejected(t *testing.T) {
	withSecret(t, "first")
	token, err := GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "second"
	_, err = ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	withSecret(t, "")
	_, err := GenerateToken("user-1", "", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestJSONError(t *testing.T) {
	r := gin.New()
	r.GET("/bad", func(c *gin.Context) {
		JSONError(c, http.StatusBadRequest, "Invalid input", "message is required")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid input","details":"message is required"}`, w.Body.String())
}

func TestSealer(t *testing.T) {
	assert.Nil(t, NewSealer(""))

	s := NewSealer("session-key")
	sealed, err := s.Seal([]byte(`{"id":"s1"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), `"id"`)

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"s1"}`, string(plain))

	_, err = NewSealer("other-key").Open(sealed)
	assert.Error(t, err)

	_, err = s.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}
