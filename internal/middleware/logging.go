package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"cryptowatch/internal/logger"
	"cryptowatch/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with a unique
// request ID, method, path, status code, latency, and client IP using Zap.
// A well-formed incoming X-Request-ID is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID, ok := uuid.Normalize(c.GetHeader("X-Request-ID"))
		if !ok {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		log := logger.Get()
		log.Infow("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"client_id", c.GetString(clientIDKey),
		)
	}
}

// RequestID returns the id assigned by RequestLogging, or a fresh one when the
// middleware did not run.
func RequestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	id := uuid.New()
	c.Set(requestIDKey, id)
	return id
}
