package resolver

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"vidshort/internal/domain"
)

// resultCache keeps the last successful extraction per source URL so
// concurrent redirects for the same source do not each hit the origin.
// Entries expire with the extraction's own observed expiry.
type resultCache struct {
	cache *ristretto.Cache
}

func newResultCache(maxCost int64) (*resultCache, error) {
	numCounters := max(int64(64), maxCost/256) // ~256 bytes per entry estimate
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &resultCache{cache: cache}, nil
}

func (c *resultCache) Get(sourceURL string) (*domain.ExtractionResult, bool) {
	val, found := c.cache.Get(sourceURL)
	if !found {
		return nil, false
	}
	return val.(*domain.ExtractionResult), true
}

// Set stores the result with a TTL derived from its expiry. Non-expiring
// results get a bounded TTL so a dead host does not stay cached forever.
func (c *resultCache) Set(sourceURL string, result *domain.ExtractionResult, now time.Time) {
	ttl := time.Hour
	if expiry := result.ExpiryAt(now); expiry != nil {
		ttl = expiry.Sub(now)
		if ttl <= 0 {
			return
		}
	}
	cost := int64(len(sourceURL) + len(result.DirectLink) + len(result.Title))
	c.cache.SetWithTTL(sourceURL, result, cost, ttl)
}

// Wait blocks until buffered writes have been applied.
func (c *resultCache) Wait() {
	c.cache.Wait()
}

func (c *resultCache) Del(sourceURL string) {
	c.cache.Del(sourceURL)
}

func (c *resultCache) Close() {
	c.cache.Close()
}
