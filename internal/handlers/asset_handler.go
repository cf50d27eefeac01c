package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cryptowatch/internal/market"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
	"cryptowatch/internal/services"
)

// AssetHandler serves the market listing.
type AssetHandler struct {
	assetService services.AssetServicer
	cache        CacheRecorder
}

// NewAssetHandler creates a new AssetHandler. cache may be nil.
func NewAssetHandler(assetService services.AssetServicer, cache CacheRecorder) *AssetHandler {
	if cache == nil {
		cache = nopCacheRecorder{}
	}
	return &AssetHandler{assetService: assetService, cache: cache}
}

// AssetQuery are the listing query parameters.
type AssetQuery struct {
	pagination.PageRequest
	Quote   string `form:"quote" binding:"omitempty,quote_currency"`
	Sort    string `form:"sort" binding:"omitempty,sort_field"`
	Dir     string `form:"dir" binding:"omitempty,sort_dir"`
	Symbols string `form:"symbols" binding:"omitempty,max=1000"`
}

// AssetListResponse documents the listing envelope for swagger.
type AssetListResponse struct {
	Data      []models.Asset `json:"data"`
	RequestID string         `json:"requestId"`
}

// ListAssets returns a page of market assets
// @Summary     List market assets
// @Description Sorted, filtered page of 24h tickers from Binance with CoinGecko fallback
// @Tags        assets
// @Produce     json
// @Param       limit   query int    false "Page size (1-100)" default(20)
// @Param       offset  query int    false "Offset" default(0)
// @Param       quote   query string false "Quote currency" Enums(USDT, USD) default(USDT)
// @Param       sort    query string false "Sort field" Enums(volume, price, change) default(volume)
// @Param       dir     query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param       symbols query string false "Comma-separated symbol allow-list"
// @Success     200 {object} AssetListResponse
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Failure     502 {object} ErrorResponse "Upstream error"
// @Failure     503 {object} ErrorResponse "Upstream unavailable"
// @Failure     504 {object} ErrorResponse "Upstream timeout"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var q AssetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput("Invalid parameters", err))
		return
	}

	opts := market.ListOptions{
		Quote:     models.DefaultQuote,
		Sort:      market.SortByVolume,
		Direction: market.SortDesc,
		Limit:     q.Size(),
		Offset:    q.Offset,
		Symbols:   market.SanitizeSymbols(q.Symbols),
	}
	if q.Quote != "" {
		opts.Quote = models.QuoteCurrency(q.Quote)
	}
	if q.Sort != "" {
		opts.Sort = market.SortField(q.Sort)
	}
	if q.Dir != "" {
		opts.Direction = market.SortDirection(q.Dir)
	}

	assets, hit, err := h.assetService.ListAssets(c.Request.Context(), opts)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordCache(h.cache, metrics.CacheAssets, hit)

	c.Header("Cache-Control", publicCacheControl)
	c.Header("X-Cache", cacheHeader(hit))
	respondWithData(c, http.StatusOK, assets)
}
