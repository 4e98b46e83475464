package cache

import (
	"context"

	"github.com/contentloop/repurpose/internal/scrape"
	"github.com/rs/zerolog/log"
)

// CachedScraper wraps a scraper with the TTL cache. Only successful scrapes
// are cached.
type CachedScraper struct {
	inner scrape.Scraper
	cache *ScrapeCache
}

func NewCachedScraper(inner scrape.Scraper, cache *ScrapeCache) *CachedScraper {
	return &CachedScraper{inner: inner, cache: cache}
}

func (s *CachedScraper) Scrape(ctx context.Context, url string) (*scrape.Result, error) {
	key := GenerateCacheKey(url)

	if result, ok := s.cache.Get(ctx, key); ok {
		log.Debug().Str("url", url).Msg("Scrape cache hit")
		return result, nil
	}

	result, err := s.inner.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, key, result); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("url", url).Msg("Failed to cache scrape result")
	}

	return result, nil
}
