package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
)

// APIKeyMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured API key.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			AbortWithError(c, apperrors.ErrNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			AbortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
