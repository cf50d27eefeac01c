package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env            string
	Port           string
	LogLevel       string
	AllowedOrigins []string

	// Auth
	APIKey           string
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Upstream market data
	BinanceBaseURL   string
	CoinGeckoBaseURL string
	BinanceTimeout   time.Duration
	CoinGeckoTimeout time.Duration
	CoinGeckoPages   int
	FetchMaxAttempts int
	FetchBackoff     time.Duration

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// Asset listing cache
	CacheDuration time.Duration
	MaxCacheSize  int

	// Search engine
	SearchIndexTTL  time.Duration
	SearchCacheTTL  time.Duration
	SearchCacheSize int

	// Live stream
	StreamInterval time.Duration

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	env := getEnv("ENV", "development")

	config := &Config{
		// Server
		Env:            env,
		Port:           getEnv("PORT", "8080"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "")),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultOrigins(env))),

		// Auth
		APIKey:           getEnv("API_KEY", "crypto-watchlist-2025"),
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTExpirationDur: getDuration("JWT_EXPIRES_IN", 24*time.Hour),

		// Upstream market data
		BinanceBaseURL:   strings.TrimRight(getEnv("BINANCE_API_BASE", "https://api.binance.com/api/v3"), "/"),
		CoinGeckoBaseURL: strings.TrimRight(getEnv("COINGECKO_API_BASE", "https://api.coingecko.com/api/v3"), "/"),
		BinanceTimeout:   getDuration("BINANCE_TIMEOUT", 10*time.Second),
		CoinGeckoTimeout: getDuration("COINGECKO_TIMEOUT", 15*time.Second),
		CoinGeckoPages:   getInt("COINGECKO_PAGES", 1),
		FetchMaxAttempts: getInt("FETCH_MAX_ATTEMPTS", 3),
		FetchBackoff:     getDuration("FETCH_BACKOFF", time.Second),

		// Rate limiting
		RateLimitMaxRequests: getInt("RATE_LIMIT_MAX_REQUESTS", 60),
		RateLimitWindow:      getDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Asset listing cache
		CacheDuration: getDuration("CACHE_DURATION", time.Minute),
		MaxCacheSize:  getInt("MAX_CACHE_SIZE", 1000),

		// Search engine
		SearchIndexTTL:  getDuration("SEARCH_INDEX_TTL", 5*time.Minute),
		SearchCacheTTL:  getDuration("SEARCH_CACHE_TTL", 2*time.Minute),
		SearchCacheSize: getInt("SEARCH_CACHE_SIZE", 100),

		// Live stream
		StreamInterval: getDuration("STREAM_INTERVAL", 5*time.Second),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:     getEnv("DB_PATH", "cryptowatch.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cryptowatch"),
		DBPassword: getEnv("DB_PASSWORD", "cryptowatch"),
		DBName:     getEnv("DB_NAME", "cryptowatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresURL returns the migrate-compatible connection URL.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort +
		"/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func defaultOrigins(env string) string {
	if env == "development" {
		return "http://localhost:3000"
	}
	return "*"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
