package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the caller's correlation id.
const RequestIDHeader = "X-Request-ID"

func logrusEntry(c *gin.Context, latency time.Duration) *logrus.Entry {
	fields := logrus.Fields{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": latency.String(),
		"ip":      c.ClientIP(),
	}
	if id := c.GetHeader(RequestIDHeader); id != "" {
		fields["request_id"] = id
	}
	if p := CurrentPrincipal(c); p != nil {
		fields["user_id"] = p.ID
		fields["role"] = p.Role
	}
	return logrus.WithFields(fields)
}

// RequestLogger logs one line per request with logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logrusEntry(c, time.Since(start))
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Info("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
