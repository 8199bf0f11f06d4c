package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodtrack/moodtrack/config"
)

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		AuthTTLMinutes:     5,
		RateLimitPerMinute: 2,
	})

	r := gin.New()
	r.GET("/limited", RateLimit(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Burst is half the per-minute budget plus one.
	require.Equal(t, http.StatusOK, hit("10.1.1.1"))
	require.Equal(t, http.StatusOK, hit("10.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.1.1.1"))

	// Buckets are per client address.
	assert.Equal(t, http.StatusOK, hit("10.1.1.2"))
}
