package services

import (
	"context"
	"errors"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/search"
)

// searchService adapts the search engine to the HTTP layer.
type searchService struct {
	engine *search.Engine
}

// NewSearchService creates a new SearchServicer.
func NewSearchService(engine *search.Engine) SearchServicer {
	return &searchService{engine: engine}
}

// Search runs q against the engine. Index build failures surface as
// ErrSearchUnavailable.
func (s *searchService) Search(ctx context.Context, q search.Query) (search.Response, error) {
	resp, err := s.engine.Search(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return search.Response{}, err
		}
		return search.Response{}, apperrors.Wrap(apperrors.ErrSearchUnavailable, err)
	}
	return resp, nil
}

// IndexStats reports the live index without triggering a rebuild.
func (s *searchService) IndexStats() (search.IndexStats, bool) {
	idx := s.engine.Manager().Current()
	if idx == nil {
		return search.IndexStats{}, false
	}
	return idx.Stats(), true
}

// Reindex forces a rebuild. The previous index keeps serving if it fails.
func (s *searchService) Reindex(ctx context.Context) (search.IndexStats, error) {
	manager := s.engine.Manager()
	manager.Invalidate()
	idx, err := manager.Index(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return search.IndexStats{}, err
		}
		return search.IndexStats{}, apperrors.Wrap(apperrors.ErrSearchUnavailable, err)
	}
	return idx.Stats(), nil
}

// IndexSymbols exposes the live search index as a SymbolLookup. Until the
// first index is built every well-formed symbol is accepted.
func IndexSymbols(manager *search.Manager) SymbolLookup {
	return indexLookup{manager: manager}
}

type indexLookup struct {
	manager *search.Manager
}

func (l indexLookup) Has(symbol string) bool {
	idx := l.manager.Current()
	return idx == nil || idx.Has(symbol)
}
