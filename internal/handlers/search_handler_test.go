package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/models"
	"cryptowatch/internal/search"
	"cryptowatch/internal/services"
)

type mockSearchService struct {
	searchFn     func(ctx context.Context, q search.Query) (search.Response, error)
	indexStatsFn func() (search.IndexStats, bool)
	reindexFn    func(ctx context.Context) (search.IndexStats, error)
}

func (m *mockSearchService) Search(ctx context.Context, q search.Query) (search.Response, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return search.Response{Results: []search.Result{}}, nil
}

func (m *mockSearchService) IndexStats() (search.IndexStats, bool) {
	if m.indexStatsFn != nil {
		return m.indexStatsFn()
	}
	return search.IndexStats{}, false
}

func (m *mockSearchService) Reindex(ctx context.Context) (search.IndexStats, error) {
	if m.reindexFn != nil {
		return m.reindexFn(ctx)
	}
	return search.IndexStats{}, nil
}

var _ services.SearchServicer = (*mockSearchService)(nil)

func setupSearchRouter(handler *SearchHandler) *gin.Engine {
	r := gin.New()
	r.GET("/search", handler.Search)
	r.POST("/search/reindex", handler.Reindex)
	return r
}

func TestSearchHandler_Search(t *testing.T) {
	t.Run("returns ranked results with headers", func(t *testing.T) {
		var got search.Query
		svc := &mockSearchService{
			searchFn: func(_ context.Context, q search.Query) (search.Response, error) {
				got = q
				return search.Response{Results: []search.Result{{
					Asset:            models.Asset{Symbol: "BTCUSDT", Name: "Bitcoin"},
					RelevanceScore:   110,
					MatchType:        search.MatchSymbol,
					SearchHighlights: search.Highlights{Symbol: `<mark class="bg-yellow-200 font-semibold">BTC</mark>USDT`},
				}}}, nil
			},
		}
		recorder := newCountingRecorder()
		r := setupSearchRouter(NewSearchHandler(svc, recorder))

		rec := doRequest(r, "GET", "/search?q=btc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Text != "btc" || got.Limit != 20 || got.Offset != 0 || got.Quote != models.QuoteUSDT {
			t.Errorf("unexpected query: %+v", got)
		}
		if rec.Header().Get("X-Search-Query") != "btc" {
			t.Errorf("expected X-Search-Query btc, got %q", rec.Header().Get("X-Search-Query"))
		}
		if rec.Header().Get("X-Result-Count") != "1" {
			t.Errorf("expected X-Result-Count 1, got %q", rec.Header().Get("X-Result-Count"))
		}
		if rec.Header().Get("X-Cache") != "MISS" {
			t.Errorf("expected X-Cache MISS, got %q", rec.Header().Get("X-Cache"))
		}
		if recorder.misses[metrics.CacheSearch] != 1 {
			t.Errorf("expected one search cache miss, got %v", recorder.misses)
		}

		data := parseJSON(t, rec)["data"].([]interface{})
		first := data[0].(map[string]interface{})
		if first["symbol"] != "BTCUSDT" || first["matchType"] != "symbol" {
			t.Errorf("unexpected result: %v", first)
		}
		if first["relevanceScore"] != float64(110) {
			t.Errorf("expected relevanceScore 110, got %v", first["relevanceScore"])
		}
		highlights := first["searchHighlights"].(map[string]interface{})
		if _, ok := highlights["name"]; ok {
			t.Error("name highlight should be omitted when empty")
		}
	})

	t.Run("passes paging and quote", func(t *testing.T) {
		var got search.Query
		svc := &mockSearchService{
			searchFn: func(_ context.Context, q search.Query) (search.Response, error) {
				got = q
				return search.Response{Results: []search.Result{}, CacheHit: true}, nil
			},
		}
		rec := doRequest(setupSearchRouter(NewSearchHandler(svc, nil)), "GET", "/search?q=eth&limit=5&offset=2&quote=USD&includeMetadata=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Limit != 5 || got.Offset != 2 || got.Quote != models.QuoteUSD {
			t.Errorf("unexpected query: %+v", got)
		}
		if rec.Header().Get("X-Cache") != "HIT" {
			t.Errorf("expected X-Cache HIT, got %q", rec.Header().Get("X-Cache"))
		}
		if rec.Header().Get("X-Result-Count") != "0" {
			t.Errorf("expected X-Result-Count 0, got %q", rec.Header().Get("X-Result-Count"))
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		called := false
		svc := &mockSearchService{
			searchFn: func(context.Context, search.Query) (search.Response, error) {
				called = true
				return search.Response{}, nil
			},
		}
		r := setupSearchRouter(NewSearchHandler(svc, nil))

		long := make([]byte, 101)
		for i := range long {
			long[i] = 'a'
		}
		for _, path := range []string{
			"/search",
			"/search?q=",
			"/search?q=" + string(long),
			"/search?q=btc&limit=0",
			"/search?q=btc&limit=101",
			"/search?q=btc&quote=BTC",
			"/search?q=%ff",
		} {
			rec := doRequest(r, "GET", path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
				continue
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, "INVALID_INPUT")
			if msg, _ := result["error"].(string); len(msg) < 25 || msg[:25] != "Invalid search parameters" {
				t.Errorf("%s: unexpected message %q", path, msg)
			}
		}
		if called {
			t.Error("service must not be called on invalid input")
		}
	})

	t.Run("returns 500 when search is unavailable", func(t *testing.T) {
		svc := &mockSearchService{
			searchFn: func(context.Context, search.Query) (search.Response, error) {
				return search.Response{}, apperrors.ErrSearchUnavailable
			},
		}
		rec := doRequest(setupSearchRouter(NewSearchHandler(svc, nil)), "GET", "/search?q=btc", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SEARCH_UNAVAILABLE")
		if rec.Header().Get("Cache-Control") != "no-cache" {
			t.Errorf("expected no-cache, got %q", rec.Header().Get("Cache-Control"))
		}
	})
}

func TestSearchHandler_Reindex(t *testing.T) {
	t.Run("returns the new index stats", func(t *testing.T) {
		svc := &mockSearchService{
			reindexFn: func(context.Context) (search.IndexStats, error) {
				return search.IndexStats{Assets: 3, Symbols: 3}, nil
			},
		}
		rec := doRequest(setupSearchRouter(NewSearchHandler(svc, nil)), "POST", "/search/reindex", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data, ok := parseJSON(t, rec)["data"].(map[string]interface{})
		if !ok {
			t.Fatal("expected data object")
		}
		if data["assets"] != float64(3) {
			t.Errorf("expected 3 assets, got %v", data["assets"])
		}
	})

	t.Run("returns 500 when the build fails", func(t *testing.T) {
		svc := &mockSearchService{
			reindexFn: func(context.Context) (search.IndexStats, error) {
				return search.IndexStats{}, apperrors.ErrSearchUnavailable
			},
		}
		rec := doRequest(setupSearchRouter(NewSearchHandler(svc, nil)), "POST", "/search/reindex", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SEARCH_UNAVAILABLE")
	})
}
