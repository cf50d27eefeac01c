package handlers

import (
	"github.com/gin-gonic/gin"

	"cryptowatch/internal/logger"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/market"
	"cryptowatch/internal/models"
	"cryptowatch/internal/stream"
)

const defaultStreamLimit = 20

// StreamHandler serves the live ticker websocket.
type StreamHandler struct {
	hub *stream.Hub
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// StreamQuery are the subscription parameters.
type StreamQuery struct {
	Quote   string `form:"quote" binding:"omitempty,quote_currency"`
	Symbols string `form:"symbols" binding:"omitempty,max=1000"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q StreamQuery) subscription() stream.Subscription {
	sub := stream.Subscription{
		Quote:   models.DefaultQuote,
		Symbols: market.SanitizeSymbols(q.Symbols),
		Limit:   q.Limit,
	}
	if q.Quote != "" {
		sub.Quote = models.QuoteCurrency(q.Quote)
	}
	if sub.Limit == 0 {
		sub.Limit = defaultStreamLimit
	}
	return sub
}

// Stream upgrades to a websocket pushing listing snapshots
// @Summary     Live tickers
// @Description Websocket that pushes a listing snapshot on connect and on every refresh interval
// @Tags        assets
// @Param       quote   query string false "Quote currency" Enums(USDT, USD) default(USDT)
// @Param       symbols query string false "Comma-separated symbol allow-list"
// @Param       limit   query int    false "Assets per frame (1-100)" default(20)
// @Success     101 "Switching protocols"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Router      /stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	var q StreamQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput("Invalid parameters", err))
		return
	}

	// The upgrader writes its own HTTP error on failure.
	if err := h.hub.Serve(c.Writer, c.Request, q.subscription()); err != nil {
		logger.Get().Warnw("stream upgrade failed",
			"error", err.Error(),
			"request_id", middleware.RequestID(c),
		)
	}
}
