package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cryptowatch/internal/models"
)

// FallbackError is returned when both the primary and the fallback provider failed.
type FallbackError struct {
	PrimaryName  string
	FallbackName string
	Primary      error
	Fallback     error
}

// Error implements the error interface.
func (e *FallbackError) Error() string {
	return fmt.Sprintf("Both APIs failed. %s: %v, %s: %v", e.PrimaryName, e.Primary, e.FallbackName, e.Fallback)
}

// Unwrap exposes both causes to errors.Is/As.
func (e *FallbackError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// Fetcher tries the primary provider with retries and falls back to a second
// provider once the attempts are exhausted.
type Fetcher struct {
	primary     Provider
	fallback    Provider
	maxAttempts int
	backoff     time.Duration
	log         *zap.SugaredLogger

	sleep func(ctx context.Context, d time.Duration) error // overridable for tests
}

// NewFetcher creates a Fetcher. Attempt n (1-based) that fails waits
// n*backoff before the next attempt.
func NewFetcher(primary, fallback Provider, maxAttempts int, backoff time.Duration, log *zap.SugaredLogger) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		primary:     primary,
		fallback:    fallback,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		log:         log,
		sleep:       sleepContext,
	}
}

// FetchAssets returns the current asset list for the given quote currency.
// Primary results are returned as-is; fallback results are rewritten to the
// requested quote when it is USDT.
func (f *Fetcher) FetchAssets(ctx context.Context, quote models.QuoteCurrency) ([]models.Asset, error) {
	var primaryErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		assets, err := f.primary.FetchAssets(ctx)
		if err == nil {
			return assets, nil
		}
		primaryErr = err
		f.log.Warnw("primary market provider failed",
			"provider", f.primary.Name(),
			"attempt", attempt,
			"error", err.Error(),
		)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching assets: %w", ctx.Err())
		}
		if attempt < f.maxAttempts {
			if err := f.sleep(ctx, time.Duration(attempt)*f.backoff); err != nil {
				return nil, fmt.Errorf("fetching assets: %w", err)
			}
		}
	}

	if f.fallback == nil {
		return nil, primaryErr
	}

	f.log.Infow("switching to fallback market provider", "provider", f.fallback.Name())
	assets, err := f.fallback.FetchAssets(ctx)
	if err != nil {
		return nil, &FallbackError{
			PrimaryName:  f.primary.Name(),
			FallbackName: f.fallback.Name(),
			Primary:      primaryErr,
			Fallback:     err,
		}
	}

	if quote == models.QuoteUSDT {
		assets = RewriteQuote(assets, models.QuoteUSD, models.QuoteUSDT)
	}
	return assets, nil
}

// RewriteQuote replaces the from quote suffix with to and dedupes the result
// by symbol, keeping the higher-volume asset. Order of first appearance is kept.
func RewriteQuote(assets []models.Asset, from, to models.QuoteCurrency) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	pos := make(map[string]int, len(assets))
	for _, a := range assets {
		if strings.HasSuffix(a.Symbol, string(from)) && !strings.HasSuffix(a.Symbol, string(to)) {
			a.Symbol = strings.TrimSuffix(a.Symbol, string(from)) + string(to)
		}
		if i, ok := pos[a.Symbol]; ok {
			if a.QuoteVolume > out[i].QuoteVolume {
				out[i] = a
			}
			continue
		}
		pos[a.Symbol] = len(out)
		out = append(out, a)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
