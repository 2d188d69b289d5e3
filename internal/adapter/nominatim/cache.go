package nominatim

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
)

// CachedGeocoder wraps a Geocoder with in-memory LRU caches. Concurrent
// misses for the same key share one upstream call.
type CachedGeocoder struct {
	inner    domain.Geocoder
	searches *lruCache[[]domain.SearchResult]
	places   *lruCache[domain.Place]
	group    singleflight.Group
	metrics  *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:    inner,
		searches: newLRUCache[[]domain.SearchResult](maxEntries),
		places:   newLRUCache[domain.Place](maxEntries),
		metrics:  metrics,
	}
}

func (c *CachedGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	key := fmt.Sprintf("search:%d:%s", limit, strings.ToLower(strings.TrimSpace(query)))
	if results, ok := c.searches.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("search", "hit").Inc()
		return cloneResults(results), nil
	}

	v, err := c.do(ctx, "search", key, func(ctx context.Context) (any, error) {
		results, err := c.inner.Search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		// Only cache non-empty results so transient "not found" responses can be retried.
		if len(results) > 0 {
			c.searches.put(key, results)
		}
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneResults(v.([]domain.SearchResult)), nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := fmt.Sprintf("reverse:%.6f,%.6f", lat, lon)
	if place, ok := c.places.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return place, nil
	}

	v, err := c.do(ctx, "reverse", key, func(ctx context.Context) (any, error) {
		place, err := c.inner.Reverse(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		if place.DisplayName != "" {
			c.places.put(key, place)
		}
		return place, nil
	})
	if err != nil {
		return domain.Place{}, err
	}
	return v.(domain.Place), nil
}

// do runs fn once per key across concurrent callers. The upstream call is
// detached from any single caller's cancellation; a caller whose ctx ends
// stops waiting and gets ctx.Err().
func (c *CachedGeocoder) do(ctx context.Context, method, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		c.recordMiss(method, res.Shared)
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CachedGeocoder) recordMiss(method string, shared bool) {
	result := "miss"
	if shared {
		result = "shared"
	}
	c.metrics.GeocodeCache.WithLabelValues(method, result).Inc()
}

// cloneResults keeps callers from mutating cached slices.
func cloneResults(in []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, len(in))
	copy(out, in)
	return out
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
