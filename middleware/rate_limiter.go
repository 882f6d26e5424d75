package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HitCounter is implemented by cache.WindowCounter.
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// ReportRateLimiter allows limit submissions per client IP per 24 hours.
// A nil counter disables limiting.
func ReportRateLimiter(counter HitCounter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		count, retryAfter, err := counter.Hit(c.Request.Context(), c.ClientIP(), 24*time.Hour)
		if err != nil {
			// Redis trouble should not block reporting.
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
