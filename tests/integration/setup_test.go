package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cryptowatch/internal/logger"
	"cryptowatch/internal/market"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/models"
	"cryptowatch/internal/search"
	"cryptowatch/internal/server"
	"cryptowatch/internal/services"
	"cryptowatch/internal/validator"
)

const testAPIKey = "integration-key"

// tickers is the upstream 24h snapshot served by the Binance stub.
const tickers = `[
	{"symbol":"BTCUSDT","lastPrice":"67000.00","priceChangePercent":"2.5","quoteVolume":"1200000000"},
	{"symbol":"ETHUSDT","lastPrice":"3000.00","priceChangePercent":"-1.0","quoteVolume":"800000000"},
	{"symbol":"ADAUSDT","lastPrice":"0.45","priceChangePercent":"4.0","quoteVolume":"200000000"},
	{"symbol":"DOGEUSDT","lastPrice":"0.12","priceChangePercent":"0.5","quoteVolume":"50000000"},
	{"symbol":"BTCUSD","lastPrice":"67010.00","priceChangePercent":"2.4","quoteVolume":"500000"}
]`

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Metrics  *metrics.Collector
	Upstream *atomic.Int64 // Binance requests served
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Favorite{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// setupUpstream starts a Binance stub and a CoinGecko stub that always fails.
func setupUpstream(t *testing.T) (binanceURL, coinGeckoURL string, calls *atomic.Int64) {
	t.Helper()

	calls = &atomic.Int64{}
	binance := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tickers))
	}))
	coinGecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(binance.Close)
	t.Cleanup(coinGecko.Close)
	return binance.URL, coinGecko.URL, calls
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite and stubbed market data providers.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithLimit(t, 1000)
}

func setupAppWithLimit(t *testing.T, rateLimit int) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	binanceURL, coinGeckoURL, calls := setupUpstream(t)
	log := logger.Get()

	fetcher := market.NewFetcher(
		market.NewBinanceProvider(http.DefaultClient, binanceURL, time.Second),
		market.NewCoinGeckoProvider(http.DefaultClient, coinGeckoURL, time.Second, 1),
		1, 0, log,
	)

	collector := metrics.NewCollector()
	resultCache := search.NewResultCache(search.DefaultCacheCapacity, search.DefaultCacheTTL)
	indexManager := search.NewManager(fetcher, models.DefaultQuote, search.DefaultIndexTTL, resultCache, log)
	indexManager.OnRebuild(func(_ search.IndexStats, _ time.Duration, err error) {
		collector.RecordIndexRebuild(err)
	})

	router := server.NewRouter(server.Deps{
		Env:            "test",
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"http://localhost:3000"},
		Assets:         services.NewAssetService(fetcher, 100, time.Minute),
		Search:         services.NewSearchService(search.NewEngine(indexManager, resultCache, log)),
		Favorites:      services.NewFavoriteService(db, services.IndexSymbols(indexManager)),
		Tokens:         services.NewTokenService("integration-secret", time.Hour),
		Metrics:        collector,
		Limiter:        middleware.NewRateLimiter(rateLimit, time.Minute),
	})

	return &testApp{DB: db, Router: router, Metrics: collector, Upstream: calls}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// dataList returns the envelope data as a list of objects.
func dataList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	raw, ok := parseJSON(t, rec)["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array, got: %s", rec.Body.String())
	}
	out := make([]map[string]interface{}, len(raw))
	for i, item := range raw {
		out[i] = item.(map[string]interface{})
	}
	return out
}

// issueToken exchanges the API key for a client token.
func (app *testApp) issueToken(t *testing.T, clientID string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/auth/token", strings.NewReader(fmt.Sprintf(`{"client_id":%q}`, clientID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("token issue failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	return data["token"].(string)
}
