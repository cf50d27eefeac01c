package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
	"cryptowatch/internal/services"
)

// FavoriteHandler manages the caller's watchlist.
type FavoriteHandler struct {
	favoriteService services.FavoriteServicer
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService services.FavoriteServicer) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// FavoriteListResponse documents the favorites envelope for swagger.
type FavoriteListResponse struct {
	Data      []models.Favorite `json:"data"`
	RequestID string            `json:"requestId"`
}

// FavoriteResponse documents a single favorite envelope for swagger.
type FavoriteResponse struct {
	Data      models.Favorite `json:"data"`
	RequestID string          `json:"requestId"`
}

func clientID(c *gin.Context) (string, error) {
	id := middleware.ClientID(c)
	if id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// ListFavorites returns the caller's favorites
// @Summary     List favorites
// @Tags        favorites
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "Page size (1-100)" default(20)
// @Param       offset query int false "Offset" default(0)
// @Success     200 {object} FavoriteListResponse
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	id, err := clientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput("Invalid parameters", err))
		return
	}

	favorites, err := h.favoriteService.ListFavorites(id, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	respondWithData(c, http.StatusOK, favorites)
}

// AddFavorite pins a symbol
// @Summary     Add a favorite
// @Description Idempotent: adding a pinned symbol returns the existing favorite
// @Tags        favorites
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Market symbol, e.g. BTCUSDT"
// @Success     200 {object} FavoriteResponse
// @Failure     400 {object} ErrorResponse "Invalid or unknown symbol"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /favorites/{symbol} [put]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	id, err := clientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	favorite, err := h.favoriteService.AddFavorite(id, c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, favorite)
}

// RemoveFavorite unpins a symbol
// @Summary     Remove a favorite
// @Tags        favorites
// @Security    BearerAuth
// @Param       symbol path string true "Market symbol"
// @Success     204 "Removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not a favorite"
// @Router      /favorites/{symbol} [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	id, err := clientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.favoriteService.RemoveFavorite(id, c.Param("symbol")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
