package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
)

const (
	clientIDKey      = "clientID"
	authenticatedKey = "authenticated"

	// StaticClientID identifies callers authenticated with the shared API key.
	StaticClientID = "default"
)

// TokenParser resolves a bearer token to a client id.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthMiddleware requires a Bearer credential: either the shared API key or
// a client token. The resolved client id is stored on the context.
func AuthMiddleware(tokens TokenParser, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := authenticate(c, tokens, apiKey)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(clientIDKey, clientID)
		c.Set(authenticatedKey, true)
		c.Next()
	}
}

// OptionalAuth records the caller when a valid credential is present and
// lets anonymous or invalid requests through.
func OptionalAuth(tokens TokenParser, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if clientID, err := authenticate(c, tokens, apiKey); err == nil {
			c.Set(clientIDKey, clientID)
			c.Set(authenticatedKey, true)
		} else {
			c.Set(authenticatedKey, false)
		}
		c.Next()
	}
}

// ClientID returns the authenticated client id, or "" for anonymous callers.
func ClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// IsAuthenticated reports whether an auth middleware accepted the caller.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(authenticatedKey)
}

func authenticate(c *gin.Context, tokens TokenParser, apiKey string) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format")
	}
	credential := parts[1]

	if apiKey != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(apiKey)) == 1 {
		return StaticClientID, nil
	}
	if tokens == nil {
		return "", apperrors.ErrInvalidAPIKey
	}

	clientID, err := tokens.ParseToken(credential)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token")
	}
	return clientID, nil
}
