package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report2resolve-be/repository"
)

// IssueRateLimiter caps how many issues one reporter may file per day.
// Signed-in reporters are keyed by id, guests by client IP.
func IssueRateLimiter(kv repository.KV, prefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		reporter := "ip:" + c.ClientIP()
		if p := CurrentPrincipal(c); p != nil {
			reporter = "user:" + p.ID
		}
		userKey := prefix + ":" + reporter
		ctx := c.Request.Context()

		count, err := kv.Incr(ctx, userKey)
		if err != nil {
			logrus.WithError(err).Error("redis error incrementing count")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "unknown", "detail": "Something went wrong"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment
		if count == 1 {
			if err := kv.Expire(ctx, userKey, 24*time.Hour); err != nil {
				logrus.WithError(err).Error("redis error setting TTL")
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "unknown", "detail": "Something went wrong"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := kv.TTL(ctx, userKey)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"ok":          false,
				"error":       "rate_limited",
				"detail":      "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
