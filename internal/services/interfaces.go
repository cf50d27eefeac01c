package services

import (
	"context"
	"time"

	"cryptowatch/internal/market"
	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
	"cryptowatch/internal/search"
)

// AssetServicer defines the contract for the market listing.
type AssetServicer interface {
	// ListAssets returns one listing page and whether it came from the cache.
	ListAssets(ctx context.Context, opts market.ListOptions) ([]models.Asset, bool, error)
}

// SearchServicer defines the contract for ranked asset search.
type SearchServicer interface {
	Search(ctx context.Context, q search.Query) (search.Response, error)
	// IndexStats reports the live index, if one has been built.
	IndexStats() (search.IndexStats, bool)
	// Reindex discards the live index and builds a new one from upstream.
	Reindex(ctx context.Context) (search.IndexStats, error)
}

// FavoriteServicer defines the contract for per-client watchlists.
type FavoriteServicer interface {
	ListFavorites(clientID string, page pagination.PageRequest) ([]models.Favorite, error)
	AddFavorite(clientID, symbol string) (*models.Favorite, error)
	RemoveFavorite(clientID, symbol string) error
}

// TokenServicer issues and verifies client access tokens.
type TokenServicer interface {
	IssueToken(clientID string) (string, time.Time, error)
	ParseToken(token string) (string, error)
}

// AssetFetcher is the upstream market data source.
type AssetFetcher interface {
	FetchAssets(ctx context.Context, quote models.QuoteCurrency) ([]models.Asset, error)
}

// SymbolLookup reports whether a market symbol is known.
type SymbolLookup interface {
	Has(symbol string) bool
}
