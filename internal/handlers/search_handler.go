package handlers

import (
	"net/http"
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"cryptowatch/internal/logger"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
	"cryptowatch/internal/search"
	"cryptowatch/internal/services"
)

var errMalformedQuery = errors.New("q must be valid UTF-8")

// SearchHandler serves ranked asset search.
type SearchHandler struct {
	searchService services.SearchServicer
	cache         CacheRecorder
}

// NewSearchHandler creates a new SearchHandler. cache may be nil.
func NewSearchHandler(searchService services.SearchServicer, cache CacheRecorder) *SearchHandler {
	if cache == nil {
		cache = nopCacheRecorder{}
	}
	return &SearchHandler{searchService: searchService, cache: cache}
}

// SearchQuery are the search query parameters. IncludeMetadata is accepted
// for client compatibility and has no effect.
type SearchQuery struct {
	Q string `form:"q" binding:"required,min=1,max=100"`
	pagination.PageRequest
	Quote           string `form:"quote" binding:"omitempty,quote_currency"`
	IncludeMetadata bool   `form:"includeMetadata"`
}

// SearchResponse documents the search envelope for swagger.
type SearchResponse struct {
	Data      []search.Result `json:"data"`
	RequestID string          `json:"requestId"`
}

// Search ranks assets against a free-text query
// @Summary     Search assets
// @Description Tiered symbol/name/fuzzy search over the cached market snapshot
// @Tags        search
// @Produce     json
// @Param       q               query string true  "Search text (1-100 chars)"
// @Param       limit           query int    false "Page size (1-100)" default(20)
// @Param       offset          query int    false "Offset" default(0)
// @Param       quote           query string false "Quote currency" Enums(USDT, USD) default(USDT)
// @Param       includeMetadata query bool   false "Accepted, currently unused" default(false)
// @Success     200 {object} SearchResponse
// @Header      200 {string} X-Cache "HIT or MISS"
// @Header      200 {string} X-Search-Query "Echoed query"
// @Header      200 {string} X-Result-Count "Number of results"
// @Failure     400 {object} ErrorResponse "Invalid parameters"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Failure     500 {object} ErrorResponse "Search unavailable"
// @Router      /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput("Invalid search parameters", err))
		return
	}
	if !utf8.ValidString(q.Q) {
		respondWithError(c, invalidInput("Invalid search parameters", errMalformedQuery))
		return
	}

	quote := models.DefaultQuote
	if q.Quote != "" {
		quote = models.QuoteCurrency(q.Quote)
	}

	resp, err := h.searchService.Search(c.Request.Context(), search.Query{
		Text:   q.Q,
		Limit:  q.Size(),
		Offset: q.Offset,
		Quote:  quote,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordCache(h.cache, metrics.CacheSearch, resp.CacheHit)

	logger.Get().Infow("search completed",
		"request_id", middleware.RequestID(c),
		"query", q.Q,
		"results", len(resp.Results),
		"cache_hit", resp.CacheHit,
	)

	c.Header("Cache-Control", publicCacheControl)
	c.Header("X-Cache", cacheHeader(resp.CacheHit))
	c.Header("X-Search-Query", q.Q)
	c.Header("X-Result-Count", strconv.Itoa(len(resp.Results)))
	respondWithData(c, http.StatusOK, resp.Results)
}

// Reindex rebuilds the search index from upstream
// @Summary     Rebuild search index
// @Description Discards the live index and cached result pages and builds a new index. The previous index keeps serving if the build fails.
// @Tags        search
// @Produce     json
// @Security    APIKeyAuth
// @Success     200 {object} object{data=search.IndexStats,requestId=string}
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Failure     500 {object} ErrorResponse "Search unavailable"
// @Router      /search/reindex [post]
func (h *SearchHandler) Reindex(c *gin.Context) {
	stats, err := h.searchService.Reindex(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("search index rebuilt on request",
		"request_id", middleware.RequestID(c),
		"assets", stats.Assets,
	)
	respondWithData(c, http.StatusOK, stats)
}
