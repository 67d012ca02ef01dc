package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/chatwire/backend/internal/api/envelope"
	"github.com/chatwire/backend/internal/infrastructure/config"
)

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, exists := clients[ip]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			clients[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			envelope.Render(c, envelope.NewHTTPError(
				http.StatusTooManyRequests,
				"Too Many Requests",
				"rate limit exceeded",
			))
			c.Abort()
			return
		}
		c.Next()
	}
}
