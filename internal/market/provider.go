// Package market fetches 24h ticker data from upstream market-data providers
// and normalizes it into models.Asset snapshots.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cryptowatch/internal/models"
)

const userAgent = "CryptoWatchlist/1.0"

// ErrTimeout is returned when a provider does not answer within its timeout.
var ErrTimeout = errors.New("request timed out")

// Provider fetches the full list of assets from one upstream source.
type Provider interface {
	// Name returns the provider's display name (e.g., "Binance", "CoinGecko").
	Name() string

	// FetchAssets returns every asset the provider currently lists.
	FetchAssets(ctx context.Context) ([]models.Asset, error)
}

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// getJSON issues a GET with the shared headers and decodes a JSON body into out.
func getJSON(ctx context.Context, client *http.Client, provider, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", provider, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s API %w", provider, ErrTimeout)
		}
		return fmt.Errorf("%s http request: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Provider: provider, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s API %w", provider, ErrTimeout)
		}
		return fmt.Errorf("decoding %s response: %w", provider, err)
	}
	return nil
}
