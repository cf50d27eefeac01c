package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/market"
	"cryptowatch/internal/models"
)

// assetService serves sorted, filtered listing pages backed by a short TTL cache.
type assetService struct {
	fetcher AssetFetcher
	cache   *expirable.LRU[string, []models.Asset]
}

// NewAssetService creates a new AssetServicer caching up to size pages for ttl.
func NewAssetService(fetcher AssetFetcher, size int, ttl time.Duration) AssetServicer {
	return &assetService{
		fetcher: fetcher,
		cache:   expirable.NewLRU[string, []models.Asset](size, nil, ttl),
	}
}

// ListAssets returns the page described by opts.
func (s *assetService) ListAssets(ctx context.Context, opts market.ListOptions) ([]models.Asset, bool, error) {
	key := listingKey(opts)
	if page, ok := s.cache.Get(key); ok {
		return page, true, nil
	}

	assets, err := s.fetcher.FetchAssets(ctx, opts.Quote)
	if err != nil {
		return nil, false, MapMarketError(err)
	}

	page := market.FilterAndSort(assets, opts)
	s.cache.Add(key, page)
	return page, false, nil
}

func listingKey(opts market.ListOptions) string {
	return fmt.Sprintf("%s-%d-%d-%s-%s-%s",
		opts.Quote, opts.Limit, opts.Offset, opts.Sort, opts.Direction, strings.Join(opts.Symbols, ","))
}

// MapMarketError translates an upstream failure into the AppError returned to
// clients. Timeouts win over provider status codes; a failure of both
// providers without either is reported as unavailable.
func MapMarketError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, market.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrUpstreamTimeout, err)
	}

	var apiErr *market.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.ErrUpstreamRateLimited, err)
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			return apperrors.Wrap(apperrors.ErrUpstreamBadGateway, err)
		}
	}

	var fallbackErr *market.FallbackError
	if errors.As(err, &fallbackErr) {
		return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	return apperrors.Wrap(apperrors.ErrMarketData, err)
}
