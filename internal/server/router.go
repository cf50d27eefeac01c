// Package server assembles the HTTP router from the application services.
package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cryptowatch/internal/handlers"
	"cryptowatch/internal/metrics"
	"cryptowatch/internal/middleware"
	"cryptowatch/internal/services"
	"cryptowatch/internal/stream"

	_ "cryptowatch/internal/docs" // Import swagger docs
)

// Deps are the collaborators the routes are wired to. DB may be nil.
type Deps struct {
	Env            string
	APIKey         string
	AllowedOrigins []string

	Assets    services.AssetServicer
	Search    services.SearchServicer
	Favorites services.FavoriteServicer
	Tokens    services.TokenServicer

	Metrics *metrics.Collector
	Limiter *middleware.RateLimiter
	Hub     *stream.Hub
	DB      handlers.Pinger
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(d Deps) *gin.Engine {
	assetHandler := handlers.NewAssetHandler(d.Assets, d.Metrics)
	searchHandler := handlers.NewSearchHandler(d.Search, d.Metrics)
	favoriteHandler := handlers.NewFavoriteHandler(d.Favorites)
	authHandler := handlers.NewAuthHandler(d.Tokens)
	healthHandler := handlers.NewHealthHandler(d.Metrics, d.DB, d.Search, d.Env)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	v1.Use(d.Limiter.Middleware())
	v1.Use(middleware.OptionalAuth(d.Tokens, d.APIKey))

	v1.GET("/assets", assetHandler.ListAssets)
	v1.GET("/search", searchHandler.Search)
	v1.POST("/search/reindex", middleware.APIKeyMiddleware(d.APIKey), searchHandler.Reindex)
	if d.Hub != nil {
		v1.GET("/stream", handlers.NewStreamHandler(d.Hub).Stream)
	}

	v1.POST("/auth/token", middleware.APIKeyMiddleware(d.APIKey), authHandler.IssueToken)

	favorites := v1.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(d.Tokens, d.APIKey))
	favorites.GET("", favoriteHandler.ListFavorites)
	favorites.PUT("/:symbol", favoriteHandler.AddFavorite)
	favorites.DELETE("/:symbol", favoriteHandler.RemoveFavorite)

	return router
}

// OriginChecker returns the websocket origin policy for the allowed origins.
// Requests without an Origin header are not browsers and are accepted.
func OriginChecker(allowedOrigins []string) func(*http.Request) bool {
	allowAll := slices.Contains(allowedOrigins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowAll || slices.Contains(allowedOrigins, origin)
	}
}
