package retrieval

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// CacheStats reports lightweight cache metrics.
type CacheStats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// CachingFetcher memoizes successful retrievals by normalized locator for
// the lifetime of a run. The time-restricted source, for one, is read by
// both passes.
type CachingFetcher struct {
	inner  Fetcher
	lru    *lru.Cache[string, domain.Document]
	hits   uint64
	misses uint64
}

// NewCachingFetcher wraps inner with an LRU of at most size documents.
func NewCachingFetcher(inner Fetcher, size int) (*CachingFetcher, error) {
	cache, err := lru.New[string, domain.Document](size)
	if err != nil {
		return nil, err
	}
	return &CachingFetcher{inner: inner, lru: cache}, nil
}

// Fetch returns a cached document when present, otherwise delegates and
// caches the result on success. Failures are never cached.
func (c *CachingFetcher) Fetch(ctx context.Context, source string) (domain.Document, error) {
	key := NormalizeLocator(source)
	if doc, ok := c.lru.Get(key); ok {
		atomic.AddUint64(&c.hits, 1)
		doc.Source = source
		return doc, nil
	}
	atomic.AddUint64(&c.misses, 1)

	doc, err := c.inner.Fetch(ctx, source)
	if err != nil {
		return domain.Document{}, err
	}
	c.lru.Add(key, doc)
	return doc, nil
}

// Stats returns cumulative hit/miss counters and the current size.
func (c *CachingFetcher) Stats() CacheStats {
	return CacheStats{
		Size:   c.lru.Len(),
		Hits:   atomic.LoadUint64(&c.hits),
		Misses: atomic.LoadUint64(&c.misses),
	}
}

var _ Fetcher = (*CachingFetcher)(nil)
