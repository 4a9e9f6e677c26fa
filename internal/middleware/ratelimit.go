package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"chatman-ops-backend/internal/models"
)

// RateLimiter is a process-local sliding-window counter keyed by client IP.
// It is not durable and not cluster-aware: counts reset on restart and are
// per-instance, which is acceptable for a single-instance deployment.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
	}
}

// Allow records an attempt for key and reports whether it stays within
// maxAttempts per window.
func (rl *RateLimiter) Allow(key string, maxAttempts int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	var recent []time.Time
	for _, t := range rl.attempts[key] {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= maxAttempts {
		rl.attempts[key] = recent
		return false
	}

	rl.attempts[key] = append(recent, now)
	return true
}

// RateLimit limits requests per client IP, answering 429 with a Retry-After
// header once the window is exhausted.
func RateLimit(rl *RateLimiter, maxAttempts int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP(), maxAttempts, window) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "Too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
