package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cryptowatch/internal/models"
)

// DefaultIndexTTL is how long an index is served before a rebuild.
const DefaultIndexTTL = 5 * time.Minute

// ErrIndexBuild is returned when fetching assets for a rebuild failed.
var ErrIndexBuild = errors.New("search index build failed")

// AssetSource supplies the asset snapshot an index is built from.
type AssetSource interface {
	FetchAssets(ctx context.Context, quote models.QuoteCurrency) ([]models.Asset, error)
}

// RebuildHook observes every rebuild attempt.
type RebuildHook func(stats IndexStats, took time.Duration, err error)

// Manager owns the live index. Readers load the current snapshot through an
// atomic pointer; a stale or missing index is rebuilt by exactly one caller
// while concurrent callers wait for the same result.
type Manager struct {
	source AssetSource
	quote  models.QuoteCurrency
	ttl    time.Duration
	cache  *ResultCache
	log    *zap.SugaredLogger

	current atomic.Pointer[Index]
	stale   atomic.Bool
	group   singleflight.Group

	onRebuild RebuildHook
	now       func() time.Time // overridable for tests
}

// NewManager creates a Manager that builds indexes from source using the
// given quote currency and clears cache after every successful rebuild.
func NewManager(source AssetSource, quote models.QuoteCurrency, ttl time.Duration, cache *ResultCache, log *zap.SugaredLogger) *Manager {
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		source: source,
		quote:  quote,
		ttl:    ttl,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// OnRebuild registers a hook called after every rebuild attempt.
func (m *Manager) OnRebuild(hook RebuildHook) {
	m.onRebuild = hook
}

// Index returns a fresh index, rebuilding it when none exists or the current
// one is older than the TTL. On failure the previous index stays in place
// and the error wraps ErrIndexBuild.
func (m *Manager) Index(ctx context.Context) (*Index, error) {
	if idx := m.current.Load(); idx != nil && m.fresh(idx) {
		return idx, nil
	}

	ch := m.group.DoChan("rebuild", func() (any, error) {
		// Another caller may have finished a rebuild while we waited.
		if idx := m.current.Load(); idx != nil && m.fresh(idx) {
			return idx, nil
		}
		// The shared rebuild outlives any single caller's cancellation.
		return m.rebuild(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

// Current returns the live index without triggering a rebuild. It is nil
// until the first successful build.
func (m *Manager) Current() *Index {
	return m.current.Load()
}

// Invalidate forces the next Index call to rebuild. The current index keeps
// serving Current and stays in place if that rebuild fails.
func (m *Manager) Invalidate() {
	m.stale.Store(true)
}

func (m *Manager) fresh(idx *Index) bool {
	return !m.stale.Load() && m.now().Sub(idx.BuiltAt()) < m.ttl
}

func (m *Manager) rebuild(ctx context.Context) (*Index, error) {
	start := m.now()
	assets, err := m.source.FetchAssets(ctx, m.quote)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIndexBuild, err)
		m.log.Errorw("search index rebuild failed", "error", err.Error())
		m.notify(IndexStats{}, m.now().Sub(start), err)
		return nil, err
	}

	idx := BuildIndex(assets, m.now())
	m.current.Store(idx)
	m.stale.Store(false)
	if m.cache != nil {
		m.cache.Clear()
	}

	stats := idx.Stats()
	took := m.now().Sub(start)
	m.log.Infow("search index rebuilt",
		"assets", stats.Assets,
		"symbols", stats.Symbols,
		"names", stats.Names,
		"trigrams", stats.Trigrams,
		"took_ms", took.Milliseconds(),
	)
	m.notify(stats, took, nil)
	return idx, nil
}

func (m *Manager) notify(stats IndexStats, took time.Duration, err error) {
	if m.onRebuild != nil {
		m.onRebuild(stats, took, err)
	}
}
