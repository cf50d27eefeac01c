package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/logger"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/services"
)

// AuthHandler issues client tokens in exchange for the shared API key.
type AuthHandler struct {
	tokenService services.TokenServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(tokenService services.TokenServicer) *AuthHandler {
	return &AuthHandler{tokenService: tokenService}
}

// TokenRequest represents the token request payload
type TokenRequest struct {
	ClientID string `json:"client_id" binding:"required,min=3,max=64,printascii"`
}

// TokenResponse represents the issued token
type TokenResponse struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"client_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken exchanges the API key for a per-client token
// @Summary     Issue a client token
// @Description Requires the shared API key in X-API-Key. The token scopes favorites and rate limits to client_id.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    APIKeyAuth
// @Param       request body TokenRequest true "Client identity"
// @Success     201 {object} TokenResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	token, expiresAt, err := h.tokenService.IssueToken(req.ClientID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	logger.Get().Infow("client token issued",
		"client_id", req.ClientID,
		"request_id", middleware.RequestID(c),
	)

	c.Header("Cache-Control", "no-store")
	respondWithData(c, http.StatusCreated, TokenResponse{
		Token:     token,
		ClientID:  req.ClientID,
		ExpiresAt: expiresAt,
	})
}
