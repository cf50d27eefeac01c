package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/logger"
	"cryptowatch/internal/models"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. AppErrors are returned with
// their code and message; unexpected errors are logged and return a generic
// internal error to avoid leaking details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		AbortWithError(c, c.Errors.Last().Err)
	}
}

// AbortWithError stops the chain and writes the error envelope for err.
func AbortWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.Header("Cache-Control", "no-cache")
	c.AbortWithStatusJSON(appErr.StatusCode, models.Envelope[any]{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: RequestID(c),
	})
}
