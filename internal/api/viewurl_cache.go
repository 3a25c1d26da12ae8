package api

import (
	"context"
	"sync"
	"time"
)

// ViewURLFetcher fetches a signed preview URL for an invoice.
type ViewURLFetcher interface {
	RequestViewURL(ctx context.Context, id int64) (string, error)
}

type cachedURLEntry struct {
	URL       string
	ExpiresAt time.Time
}

type inFlightFetch struct {
	done chan struct{}
	url  string
	err  error
}

const maxCleanupInterval = 5 * time.Minute

// ViewURLCache wraps a ViewURLFetcher with in-memory TTL caching and
// single-flight deduplication keyed by invoice id, so a signed URL is
// fetched once and reused until it is close to expiry. Signed URLs are
// short-lived backend-side; the TTL must stay below that window.
type ViewURLCache struct {
	inner ViewURLFetcher
	ttl   time.Duration

	mu          sync.RWMutex
	urls        map[int64]cachedURLEntry
	inFlight    map[int64]*inFlightFetch
	lastCleanup time.Time
}

// NewViewURLCache returns a caching wrapper around fetcher.
func NewViewURLCache(fetcher ViewURLFetcher, ttl time.Duration) *ViewURLCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ViewURLCache{
		inner:    fetcher,
		ttl:      ttl,
		urls:     make(map[int64]cachedURLEntry),
		inFlight: make(map[int64]*inFlightFetch),
	}
}

// Get returns the cached URL for an invoice, fetching it when absent or
// expired. Concurrent callers for the same invoice share one fetch.
func (c *ViewURLCache) Get(ctx context.Context, id int64) (string, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.urls[id]
	c.mu.RUnlock()
	if ok && now.Before(entry.ExpiresAt) {
		return entry.URL, nil
	}

	c.mu.Lock()
	// Re-check under write lock in case another goroutine refreshed it.
	entry, ok = c.urls[id]
	if ok && now.Before(entry.ExpiresAt) {
		c.mu.Unlock()
		return entry.URL, nil
	}
	if ok {
		delete(c.urls, id)
	}

	if call, waiting := c.inFlight[id]; waiting {
		c.mu.Unlock()
		return waitForFetch(ctx, call)
	}

	call := &inFlightFetch{done: make(chan struct{})}
	c.inFlight[id] = call
	c.mu.Unlock()

	// Detach the fetch from a single caller's deadline so one cancelled
	// request cannot fail all concurrent waiters.
	go c.fetchAndBroadcast(context.WithoutCancel(ctx), id, call)
	return waitForFetch(ctx, call)
}

// Cached returns the live URL already held for an invoice, if any,
// without triggering a fetch.
func (c *ViewURLCache) Cached(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.urls[id]
	if !ok || !time.Now().Before(entry.ExpiresAt) {
		return "", false
	}
	return entry.URL, true
}

func (c *ViewURLCache) fetchAndBroadcast(ctx context.Context, id int64, call *inFlightFetch) {
	url, err := c.inner.RequestViewURL(ctx, id)

	fetchedAt := time.Now()
	c.mu.Lock()
	if err == nil {
		c.urls[id] = cachedURLEntry{
			URL:       url,
			ExpiresAt: fetchedAt.Add(c.ttl),
		}
		c.cleanupExpiredLocked(fetchedAt)
	}
	call.url = url
	call.err = err
	delete(c.inFlight, id)
	close(call.done)
	c.mu.Unlock()
}

func waitForFetch(ctx context.Context, call *inFlightFetch) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-call.done:
		return call.url, call.err
	}
}

func (c *ViewURLCache) cleanupExpiredLocked(now time.Time) {
	interval := min(c.ttl, maxCleanupInterval)
	if !c.lastCleanup.IsZero() && now.Sub(c.lastCleanup) < interval {
		return
	}
	for id, entry := range c.urls {
		if !now.Before(entry.ExpiresAt) {
			delete(c.urls, id)
		}
	}
	c.lastCleanup = now
}
