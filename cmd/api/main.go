package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptowatch/internal/config"
	"cryptowatch/internal/database"
	"cryptowatch/internal/logger"
	"cryptowatch/internal/market"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/models"
	"cryptowatch/internal/search"
	"cryptowatch/internal/server"
	"cryptowatch/internal/services"
	"cryptowatch/internal/stream"
	"cryptowatch/internal/validator"
)

// @title           Cryptowatch API
// @version         1.0
// @description     Crypto market listing, ranked asset search, watchlists and live tickers.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API key or a client token.

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	// Upstream market data
	httpClient := &http.Client{}
	fetcher := market.NewFetcher(
		market.NewBinanceProvider(httpClient, appConfig.BinanceBaseURL, appConfig.BinanceTimeout),
		market.NewCoinGeckoProvider(httpClient, appConfig.CoinGeckoBaseURL, appConfig.CoinGeckoTimeout, appConfig.CoinGeckoPages),
		appConfig.FetchMaxAttempts,
		appConfig.FetchBackoff,
		log,
	)

	// Search engine
	resultCache := search.NewResultCache(appConfig.SearchCacheSize, appConfig.SearchCacheTTL)
	indexManager := search.NewManager(fetcher, models.DefaultQuote, appConfig.SearchIndexTTL, resultCache, log)
	indexManager.OnRebuild(func(_ search.IndexStats, _ time.Duration, err error) {
		collector.RecordIndexRebuild(err)
	})
	engine := search.NewEngine(indexManager, resultCache, log)

	// Services
	assetService := services.NewAssetService(fetcher, appConfig.MaxCacheSize, appConfig.CacheDuration)
	searchService := services.NewSearchService(engine)
	favoriteService := services.NewFavoriteService(dbManager.DB(), services.IndexSymbols(indexManager))
	tokenService := services.NewTokenService(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	hub := stream.NewHub(assetService, appConfig.StreamInterval, server.OriginChecker(appConfig.AllowedOrigins), collector, log)
	go hub.Run(ctx)

	router := server.NewRouter(server.Deps{
		Env:            appConfig.Env,
		APIKey:         appConfig.APIKey,
		AllowedOrigins: appConfig.AllowedOrigins,
		Assets:         assetService,
		Search:         searchService,
		Favorites:      favoriteService,
		Tokens:         tokenService,
		Metrics:        collector,
		Limiter:        middleware.NewRateLimiter(appConfig.RateLimitMaxRequests, appConfig.RateLimitWindow),
		Hub:            hub,
		DB:             dbManager,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Cryptowatch API server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
