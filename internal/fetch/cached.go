// Package fetch provides generic URL fetching with optional caching.
package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCacheTTL is how long a fetched page stays fresh in the cache.
const DefaultCacheTTL = 15 * time.Minute

// DefaultFetchConcurrency bounds how many URLs FetchMultiple fetches at once.
const DefaultFetchConcurrency = 4

// CachedFetcher wraps URL fetching with an in-memory cache. Job pages
// are fetched more than once per run (intake preview, then extraction),
// and some boards rate-limit aggressively.
type CachedFetcher struct {
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches

	mu    sync.Mutex
	pages map[string]*cachedPage
}

type cachedPage struct {
	result    *Result
	fetchedAt time.Time
	failure   *Error // permanent failures are cached too
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  DefaultCacheTTL,
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	return &CachedFetcher{
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		pages:     map[string]*cachedPage{},
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool // Whether this result came from cache
}

// Fetch retrieves a URL, using cache if available and fresh.
// Returns cached content if within TTL, otherwise fetches fresh content and caches it.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache {
		if page := f.fresh(urlStr); page != nil {
			if page.failure != nil {
				return nil, page.failure
			}
			return &CachedResult{Result: page.result, FromCache: true}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		// Cache permanent failures so a dead link is not hammered
		// across retries; transient failures stay uncached.
		if fe, ok := err.(*Error); ok && !fe.Retryable {
			f.store(urlStr, &cachedPage{failure: fe, fetchedAt: time.Now()})
		}
		return nil, err
	}

	text, _ := ExtractMainText(result.HTML, DefaultTextSelectors())
	result.Text = text

	f.store(urlStr, &cachedPage{result: result, fetchedAt: time.Now()})
	return &CachedResult{Result: result, FromCache: false}, nil
}

// FetchMultiple fetches multiple URLs concurrently with caching.
// Returns results in the same order as input URLs. Failed fetches are nil in the result slice.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultFetchConcurrency)
	for i, url := range urls {
		g.Go(func() error {
			result, err := f.Fetch(gctx, url)
			if err != nil {
				errs[i] = err
				return nil // one bad URL must not cancel the rest
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// InvalidateCache drops a cached page, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) {
	f.mu.Lock()
	delete(f.pages, urlStr)
	f.mu.Unlock()
}

func (f *CachedFetcher) fresh(urlStr string) *cachedPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, ok := f.pages[urlStr]
	if !ok || time.Since(page.fetchedAt) > f.cacheTTL {
		return nil
	}
	return page
}

func (f *CachedFetcher) store(urlStr string, page *cachedPage) {
	f.mu.Lock()
	f.pages[urlStr] = page
	f.mu.Unlock()
}
