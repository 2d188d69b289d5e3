package nominatim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	searchCalls  atomic.Int64
	reverseCalls atomic.Int64
	results      []domain.SearchResult
	place        domain.Place
	err          error
	release      chan struct{} // when set, calls block until closed
}

func (m *countingGeocoder) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	m.searchCalls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.results, m.err
}

func (m *countingGeocoder) Reverse(_ context.Context, _, _ float64) (domain.Place, error) {
	m.reverseCalls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.place, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_SearchCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		results: []domain.SearchResult{{ID: "1", DisplayName: "Pune", Latitude: "18.52", Longitude: "73.85"}},
	}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.Search(context.Background(), "Pune", 5)
	require.NoError(t, err)
	assert.Equal(t, "Pune", r1[0].DisplayName)

	// Normalized key: case and surrounding space do not matter.
	r2, err := cached.Search(context.Background(), "  pune ", 5)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, int64(1), inner.searchCalls.Load(), "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("search", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("search", "miss")), 0)
}

func TestCachedGeocoder_SearchReturnsCopy(t *testing.T) {
	inner := &countingGeocoder{results: []domain.SearchResult{{DisplayName: "Pune"}}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	r1, err := cached.Search(context.Background(), "pune", 5)
	require.NoError(t, err)
	r1[0].DisplayName = "mutated"

	r2, err := cached.Search(context.Background(), "pune", 5)
	require.NoError(t, err)
	assert.Equal(t, "Pune", r2[0].DisplayName)
}

func TestCachedGeocoder_EmptySearchNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Search(context.Background(), "nowhere", 5)
	_, _ = cached.Search(context.Background(), "nowhere", 5)

	assert.Equal(t, int64(2), inner.searchCalls.Load())
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		place: domain.Place{DisplayName: "Jaipur, Rajasthan"},
	}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Reverse(context.Background(), 26.9124, 75.7873)
	require.NoError(t, err)

	// Same point at six decimals.
	_, err = cached.Reverse(context.Background(), 26.91240001, 75.7873)
	require.NoError(t, err)

	assert.Equal(t, int64(1), inner.reverseCalls.Load(), "should only call inner once")
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("upstream down")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
	_, err = cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)

	assert.Equal(t, int64(2), inner.reverseCalls.Load())
}

func TestCachedGeocoder_ConcurrentMissesShareCall(t *testing.T) {
	inner := &countingGeocoder{
		place:   domain.Place{DisplayName: "Pune"},
		release: make(chan struct{}),
	}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			place, err := cached.Reverse(context.Background(), 18.52, 73.85)
			assert.NoError(t, err)
			assert.Equal(t, "Pune", place.DisplayName)
		}()
	}

	// Let the callers pile up behind the first one before releasing it.
	require.Eventually(t, func() bool { return inner.reverseCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int64(1), inner.reverseCalls.Load())
}

func TestCachedGeocoder_CallerCancelStopsWaiting(t *testing.T) {
	inner := &countingGeocoder{
		place:   domain.Place{DisplayName: "Pune"},
		release: make(chan struct{}),
	}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := cached.Reverse(ctx, 18.52, 73.85)
		errCh <- err
	}()
	require.Eventually(t, func() bool { return inner.reverseCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	// The detached upstream call still completes and fills the cache.
	close(inner.release)
	require.Eventually(t, func() bool { return cached.places.len() == 1 }, time.Second, 5*time.Millisecond)

	place, err := cached.Reverse(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, "Pune", place.DisplayName)
	assert.Equal(t, int64(1), inner.reverseCalls.Load())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[domain.Place](3)

	c.put("a", domain.Place{DisplayName: "A"})
	c.put("b", domain.Place{DisplayName: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.DisplayName)

	_, ok = c.get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[domain.Place](2)

	c.put("a", domain.Place{DisplayName: "A"})
	c.put("b", domain.Place{DisplayName: "B"})
	c.put("c", domain.Place{DisplayName: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.DisplayName)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.DisplayName)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[domain.Place](2)

	c.put("a", domain.Place{DisplayName: "A"})
	c.put("b", domain.Place{DisplayName: "B"})

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.Place{DisplayName: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[domain.Place](2)

	c.put("a", domain.Place{DisplayName: "A1"})
	c.put("a", domain.Place{DisplayName: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.DisplayName)
	assert.Equal(t, 1, c.len())
}
