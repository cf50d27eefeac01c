package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptowatch/internal/models"
)

type stubSource struct {
	mu     sync.Mutex
	calls  atomic.Int32
	assets []models.Asset
	err    error
	gate   chan struct{} // when set, FetchAssets blocks until closed
}

func (s *stubSource) FetchAssets(_ context.Context, _ models.QuoteCurrency) ([]models.Asset, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets, s.err
}

func (s *stubSource) set(assets []models.Asset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets, s.err = assets, err
}

func newTestManager(src AssetSource) (*Manager, *ResultCache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cache := NewResultCache(10, time.Hour)
	m := NewManager(src, models.QuoteUSDT, 5*time.Minute, cache, nil)
	m.now = clock.now
	return m, cache, clock
}

func TestManager_BuildsOnFirstCall(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, _, _ := newTestManager(src)
	assert.Nil(t, m.Current())

	idx, err := m.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, idx.Stats().Assets)
	assert.Same(t, idx, m.Current())

	again, err := m.Index(context.Background())
	require.NoError(t, err)
	assert.Same(t, idx, again)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestManager_RebuildsWhenStaleAndClearsCache(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, cache, clock := newTestManager(src)

	first, err := m.Index(context.Background())
	require.NoError(t, err)
	cache.Set("k", page("BTCUSDT"))

	clock.advance(5 * time.Minute)
	second, err := m.Index(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Zero(t, cache.Len())
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestManager_KeepsPreviousIndexOnFailure(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, cache, clock := newTestManager(src)

	first, err := m.Index(context.Background())
	require.NoError(t, err)
	cache.Set("k", page("BTCUSDT"))

	boom := errors.New("upstream down")
	src.set(nil, boom)
	clock.advance(10 * time.Minute)

	_, err = m.Index(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexBuild)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, first, m.Current())
	assert.Equal(t, 1, cache.Len())
}

func TestManager_CoalescesConcurrentRebuilds(t *testing.T) {
	src := &stubSource{assets: sampleAssets(), gate: make(chan struct{})}
	m, _, _ := newTestManager(src)

	const callers = 8
	var wg sync.WaitGroup
	indexes := make([]*Index, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			indexes[i], errs[i] = m.Index(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(src.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, indexes[0], indexes[i])
	}
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestManager_CallerCancellation(t *testing.T) {
	src := &stubSource{assets: sampleAssets(), gate: make(chan struct{})}
	m, _, _ := newTestManager(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Index(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(src.gate)
	require.Eventually(t, func() bool { return m.Current() != nil }, time.Second, time.Millisecond)
}

func TestManager_RebuildHook(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, _, clock := newTestManager(src)

	var results []error
	m.OnRebuild(func(_ IndexStats, _ time.Duration, err error) {
		results = append(results, err)
	})

	_, err := m.Index(context.Background())
	require.NoError(t, err)
	src.set(nil, errors.New("boom"))
	clock.advance(time.Hour)
	_, _ = m.Index(context.Background())

	require.Len(t, results, 2)
	assert.NoError(t, results[0])
	assert.ErrorIs(t, results[1], ErrIndexBuild)
}

func TestManager_Invalidate(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, _, _ := newTestManager(src)

	first, err := m.Index(context.Background())
	require.NoError(t, err)
	m.Invalidate()
	assert.Same(t, first, m.Current())

	second, err := m.Index(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, src.calls.Load())

	// A clean rebuild clears the flag.
	_, err = m.Index(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestManager_InvalidateKeepsIndexOnFailure(t *testing.T) {
	src := &stubSource{assets: sampleAssets()}
	m, _, _ := newTestManager(src)

	first, err := m.Index(context.Background())
	require.NoError(t, err)

	src.set(nil, errors.New("upstream down"))
	m.Invalidate()
	_, err = m.Index(context.Background())
	assert.ErrorIs(t, err, ErrIndexBuild)
	assert.Same(t, first, m.Current())
}
