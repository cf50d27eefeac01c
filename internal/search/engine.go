package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"cryptowatch/internal/models"
)

// Query is one search request.
type Query struct {
	Text   string
	Limit  int
	Offset int
	Quote  models.QuoteCurrency
}

// Response is a ranked result page.
type Response struct {
	Results  []Result
	CacheHit bool
}

// Engine ties the index manager and the result cache together.
type Engine struct {
	manager *Manager
	cache   *ResultCache
	log     *zap.SugaredLogger
}

// NewEngine creates an Engine. cache must be the one the manager clears.
func NewEngine(manager *Manager, cache *ResultCache, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{manager: manager, cache: cache, log: log}
}

// Search serves q from the cache when possible, otherwise ranks it against
// a fresh index, applies the quote filter and caches the page. Cached pages
// are served without waiting for a rebuild, but only while the index they
// were ranked against is still the live one.
func (e *Engine) Search(ctx context.Context, q Query) (Response, error) {
	quote := q.Quote
	if quote == "" {
		quote = models.DefaultQuote
	}

	key := CacheKey(q.Text, q.Limit, q.Offset, quote)
	if results, ok := e.cache.getFor(key, e.manager.Current()); ok {
		e.log.Debugw("search cache hit", "key", key)
		return Response{Results: results, CacheHit: true}, nil
	}
	e.log.Debugw("search cache miss", "key", key)

	idx, err := e.manager.Index(ctx)
	if err != nil {
		return Response{}, err
	}

	results := FilterQuote(Search(idx, q.Text, q.Limit, q.Offset), quote)
	e.cache.setFor(key, results, idx)
	return Response{Results: results}, nil
}

// Manager returns the engine's index manager.
func (e *Engine) Manager() *Manager {
	return e.manager
}

// FilterQuote keeps results quoted in quote. USD also admits USDT pairs.
func FilterQuote(results []Result, quote models.QuoteCurrency) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		switch quote {
		case models.QuoteUSDT:
			if strings.HasSuffix(r.Symbol, "USDT") {
				out = append(out, r)
			}
		case models.QuoteUSD:
			if strings.HasSuffix(r.Symbol, "USD") || strings.HasSuffix(r.Symbol, "USDT") {
				out = append(out, r)
			}
		default:
			out = append(out, r)
		}
	}
	return out
}
