package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordRequest(latency time.Duration, failed bool)
}

// Metrics records latency and server errors for every request.
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recorder.RecordRequest(time.Since(start), c.Writer.Status() >= http.StatusInternalServerError)
	}
}
