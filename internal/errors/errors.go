// Package errors provides custom error types for the cryptowatch API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies
// still compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & rate limiting errors.
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidAPIKey = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrRateLimited   = &AppError{Code: "RATE_LIMITED", Message: "Too many requests. Please try again later.", StatusCode: http.StatusTooManyRequests}
	ErrNotConfigured = &AppError{Code: "NOT_CONFIGURED", Message: "Endpoint is not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Upstream market data errors.
var (
	ErrUpstreamTimeout     = &AppError{Code: "UPSTREAM_TIMEOUT", Message: "Request timed out. The cryptocurrency data service is slow to respond.", StatusCode: http.StatusGatewayTimeout}
	ErrUpstreamRateLimited = &AppError{Code: "UPSTREAM_RATE_LIMITED", Message: "Rate limit exceeded. Please wait a moment before trying again.", StatusCode: http.StatusTooManyRequests}
	ErrUpstreamBadGateway  = &AppError{Code: "UPSTREAM_ERROR", Message: "External service error. Please try again later.", StatusCode: http.StatusBadGateway}
	ErrUpstreamUnavailable = &AppError{Code: "UPSTREAM_UNAVAILABLE", Message: "Cryptocurrency data services are temporarily unavailable.", StatusCode: http.StatusServiceUnavailable}
	ErrMarketData          = &AppError{Code: "MARKET_DATA_ERROR", Message: "Unable to fetch cryptocurrency data. Please try again later.", StatusCode: http.StatusInternalServerError}
)

// Search errors.
var (
	ErrSearchUnavailable = &AppError{Code: "SEARCH_UNAVAILABLE", Message: "Search service temporarily unavailable. Please try again later.", StatusCode: http.StatusInternalServerError}
)

// Favorite errors.
var (
	ErrFavoriteNotFound = &AppError{Code: "FAVORITE_NOT_FOUND", Message: "Symbol is not in favorites", StatusCode: http.StatusNotFound}
	ErrUnknownSymbol    = &AppError{Code: "UNKNOWN_SYMBOL", Message: "Unknown market symbol", StatusCode: http.StatusBadRequest}
)
