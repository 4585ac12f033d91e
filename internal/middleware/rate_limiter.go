package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/pkg/response"
)

// RateLimitConfig holds rate limiting configuration for the credential
// endpoints (login, signup, bootstrap). A fixed per-IP window is enough
// here; the limiter is distributed via Redis so multiple instances share
// one budget.
type RateLimitConfig struct {
	// Requests allowed per window per client IP
	Limit int
	// Window length
	Window time.Duration
	// KeyPrefix namespaces the Redis counters
	KeyPrefix string
}

// DefaultRateLimitConfig returns sensible defaults for credential endpoints
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     10,
		Window:    time.Minute,
		KeyPrefix: "ratelimit:auth:",
	}
}

// RateLimit returns a per-IP fixed-window limiter backed by Redis.
// The limiter fails open: if Redis is unreachable the request proceeds,
// since locking users out of login is worse than briefly unthrottled traffic.
func RateLimit(client RedisStore, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg = DefaultRateLimitConfig()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(cfg.Window.Seconds())
		key := fmt.Sprintf("%s%s:%d", cfg.KeyPrefix, c.ClientIP(), window)

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, cfg.Window)
		}

		if count > int64(cfg.Limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Success: false,
				Message: "Too many requests, slow down",
				Error: &response.ErrorData{
					Code:    "RATE_LIMITED",
					Message: "Too many requests, slow down",
				},
			})
			return
		}

		c.Next()
	}
}
