package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/logger"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/models"
)

const publicCacheControl = "public, max-age=30, stale-while-revalidate=120"

// CacheRecorder receives cache hit/miss observations.
type CacheRecorder interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

type nopCacheRecorder struct{}

func (nopCacheRecorder) RecordCacheHit(string)  {}
func (nopCacheRecorder) RecordCacheMiss(string) {}

func recordCache(r CacheRecorder, cache string, hit bool) {
	if hit {
		r.RecordCacheHit(cache)
	} else {
		r.RecordCacheMiss(cache)
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// respondWithData writes data inside the standard envelope.
func respondWithData[T any](c *gin.Context, status int, data T) {
	c.JSON(status, models.Envelope[T]{
		Data:      data,
		RequestID: middleware.RequestID(c),
	})
}

// respondWithError writes a consistent JSON error envelope. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	appErr := apperrors.ErrInternalServer

	var target *apperrors.AppError
	if errors.As(err, &target) {
		appErr = target
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
	} else {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", middleware.RequestID(c),
		)
	}

	c.Header("Cache-Control", "no-cache")
	c.JSON(appErr.StatusCode, models.Envelope[any]{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: middleware.RequestID(c),
	})
}

// invalidInput wraps a binding failure in ErrInvalidInput.
func invalidInput(prefix string, err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, prefix+": "+err.Error())
}

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error" example:"Invalid input"`
	Code      string      `json:"code" example:"INVALID_INPUT"`
	RequestID string      `json:"requestId"`
}

