package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/shared/metrics"
	"resumitory-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and records request metrics.
func Logging(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		if collector != nil {
			collector.RecordRequest(c.Request.Method, status)
			collector.RecordRequestLatency(latency)
		}

		userID, _ := c.Get(userIDKey)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
