package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "cryptowatch/internal/errors"
)

const tokenIssuer = "cryptowatch-api"

// ClientClaims are the claims carried by a client access token. The subject
// is the client id.
type ClientClaims struct {
	jwt.RegisteredClaims
}

// tokenService signs HS256 client tokens.
type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenServicer.
func NewTokenService(secret string, ttl time.Duration) TokenServicer {
	return &tokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken returns a signed token for clientID and its expiry.
func (s *tokenService) IssueToken(clientID string) (string, time.Time, error) {
	if clientID == "" {
		return "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "client_id is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   clientID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates token and returns its client id.
func (s *tokenService) ParseToken(token string) (string, error) {
	claims := &ClientClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.Subject, nil
}
