// Package cache holds an in-memory TTL cache for scraped pages, so repeated
// submissions of the same URL do not burn Firecrawl credits.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/contentloop/repurpose/internal/scrape"
)

type entry struct {
	result    *scrape.Result
	expiresAt time.Time
}

type ScrapeCache struct {
	mu    sync.RWMutex
	cache map[string]entry
	ttl   time.Duration
}

func NewScrapeCache(ttl time.Duration) *ScrapeCache {
	return &ScrapeCache{
		cache: make(map[string]entry),
		ttl:   ttl,
	}
}

func (c *ScrapeCache) Get(ctx context.Context, key string) (*scrape.Result, bool) {
	c.mu.RLock()
	e, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}

	copied := *e.result
	return &copied, true
}

func (c *ScrapeCache) Set(ctx context.Context, key string, result *scrape.Result) error {
	stored := *result

	c.mu.Lock()
	c.cache[key] = entry{result: &stored, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// GenerateCacheKey hashes the URL after stripping insignificant differences
// (scheme case, trailing slash).
func GenerateCacheKey(url string) string {
	normalized := strings.TrimSuffix(strings.TrimSpace(url), "/")
	if i := strings.Index(normalized, "://"); i > 0 {
		normalized = strings.ToLower(normalized[:i]) + normalized[i:]
	}
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
