package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"chatman-ops-backend/internal/middleware"
)

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	rl := middleware.NewRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4", 5, time.Minute))
	}
	assert.False(t, rl.Allow("1.2.3.4", 5, time.Minute))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := middleware.NewRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4", 5, time.Minute))
	}
	assert.True(t, rl.Allow("5.6.7.8", 5, time.Minute))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := middleware.NewRateLimiter()

	assert.True(t, rl.Allow("1.2.3.4", 1, 10*time.Millisecond))
	assert.False(t, rl.Allow("1.2.3.4", 1, 10*time.Millisecond))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4", 1, 10*time.Millisecond))
}

func TestRateLimit_Returns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := middleware.NewRateLimiter()

	router := gin.New()
	router.POST("/chat", middleware.RateLimit(rl, 2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("POST", "/chat", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req, _ := http.NewRequest("POST", "/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
