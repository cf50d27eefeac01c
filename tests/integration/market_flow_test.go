package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAssetsFlow_ListSortAndCache(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/assets?limit=3", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("expected first listing to miss, got %q", rec.Header().Get("X-Cache"))
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	assets := dataList(t, rec)
	want := []string{"BTCUSDT", "ETHUSDT", "ADAUSDT"}
	if len(assets) != len(want) {
		t.Fatalf("expected %d assets, got %d", len(want), len(assets))
	}
	for i, sym := range want {
		if assets[i]["symbol"] != sym {
			t.Errorf("position %d: expected %s, got %v", i, sym, assets[i]["symbol"])
		}
	}

	rec = app.request("GET", "/api/v1/assets?limit=3", "", "")
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("expected repeat listing to hit, got %q", rec.Header().Get("X-Cache"))
	}
	if app.Upstream.Load() != 1 {
		t.Errorf("expected one upstream call, got %d", app.Upstream.Load())
	}

	rec = app.request("GET", "/api/v1/assets?sort=change&dir=desc&limit=1", "", "")
	if got := dataList(t, rec); len(got) != 1 || got[0]["symbol"] != "ADAUSDT" {
		t.Errorf("expected ADAUSDT as top mover, got %v", got)
	}

	rec = app.request("GET", "/api/v1/assets?quote=USD", "", "")
	if got := dataList(t, rec); len(got) != 1 || got[0]["symbol"] != "BTCUSD" {
		t.Errorf("expected only BTCUSD for USD quote, got %v", got)
	}
}

func TestAssetsFlow_InvalidParameters(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/assets?limit=0", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["code"] != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %v", result["code"])
	}
	if result["requestId"] == "" {
		t.Error("expected requestId in error envelope")
	}
}

func TestSearchFlow_RankAndCache(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/search?q=eth", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("expected MISS, got %q", rec.Header().Get("X-Cache"))
	}
	results := dataList(t, rec)
	if len(results) == 0 || results[0]["symbol"] != "ETHUSDT" {
		t.Fatalf("expected ETHUSDT first, got %v", results)
	}
	if results[0]["matchType"] != "symbol" {
		t.Errorf("expected symbol match, got %v", results[0]["matchType"])
	}

	rec = app.request("GET", "/api/v1/search?q=eth", "", "")
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("expected HIT on repeat, got %q", rec.Header().Get("X-Cache"))
	}

	// USDT quote drops the USD pair.
	rec = app.request("GET", "/api/v1/search?q=btc", "", "")
	for _, r := range dataList(t, rec) {
		if r["symbol"] == "BTCUSD" {
			t.Error("BTCUSD should be filtered from USDT results")
		}
	}

	rec = app.request("GET", "/api/v1/search", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t)

	app.request("GET", "/api/v1/search?q=ada", "", "")

	rec := app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy, got %v (issues %v)", result["status"], result["issues"])
	}
	checks := result["checks"].(map[string]interface{})
	index, ok := checks["searchIndex"].(map[string]interface{})
	if !ok || index["assets"] != float64(5) {
		t.Errorf("expected search index over 5 assets, got %v", checks["searchIndex"])
	}

	rec = app.request("GET", "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"cryptowatch_api_requests_total",
		`cryptowatch_search_index_rebuilds_total{result="success"} 1`,
		`cryptowatch_cache_misses_total{cache="search"} 1`,
	} {
		if !contains(body, name) {
			t.Errorf("expected %q in metrics output", name)
		}
	}
}

func TestRateLimit(t *testing.T) {
	app := setupAppWithLimit(t, 2)

	for i := 0; i < 2; i++ {
		rec := app.request("GET", "/api/v1/assets", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := app.request("GET", "/api/v1/assets", "", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if parseJSON(t, rec)["code"] != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %s", rec.Body.String())
	}

	// Health is outside the limited group.
	if rec := app.request("GET", "/api/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("expected health to bypass the limiter, got %d", rec.Code)
	}
}

func TestSearchFlow_ReindexClearsCachedPages(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/search?q=eth", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	before := app.Upstream.Load()

	rec = app.request("POST", "/api/v1/search/reindex", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/api/v1/search/reindex", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if app.Upstream.Load() != before+1 {
		t.Errorf("expected one more upstream call, got %d -> %d", before, app.Upstream.Load())
	}

	rec = app.request("GET", "/api/v1/search?q=eth", "", "")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("expected MISS after reindex, got %q", rec.Header().Get("X-Cache"))
	}
}
