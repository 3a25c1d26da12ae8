package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int64
	delay time.Duration
	err   error
}

func (f *countingFetcher) RequestViewURL(_ context.Context, id int64) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://signed/%d", id), nil
}

func TestViewURLCache(t *testing.T) {
	t.Parallel()

	t.Run("fetches once and serves from cache", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{}
		cache := NewViewURLCache(fetcher, time.Minute)

		url1, err := cache.Get(context.Background(), 7)
		require.NoError(t, err)
		url2, err := cache.Get(context.Background(), 7)
		require.NoError(t, err)

		require.Equal(t, "https://signed/7", url1)
		require.Equal(t, url1, url2)
		require.Equal(t, int64(1), fetcher.calls.Load())
	})

	t.Run("distinct invoices fetch independently", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{}
		cache := NewViewURLCache(fetcher, time.Minute)

		url1, err := cache.Get(context.Background(), 1)
		require.NoError(t, err)
		url2, err := cache.Get(context.Background(), 2)
		require.NoError(t, err)

		require.NotEqual(t, url1, url2)
		require.Equal(t, int64(2), fetcher.calls.Load())
	})

	t.Run("refetches after expiry", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{}
		cache := NewViewURLCache(fetcher, 10*time.Millisecond)

		_, err := cache.Get(context.Background(), 7)
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
		_, err = cache.Get(context.Background(), 7)
		require.NoError(t, err)

		require.Equal(t, int64(2), fetcher.calls.Load())
	})

	t.Run("concurrent requests share one fetch", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{delay: 30 * time.Millisecond}
		cache := NewViewURLCache(fetcher, time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				url, err := cache.Get(context.Background(), 7)
				require.NoError(t, err)
				require.Equal(t, "https://signed/7", url)
			}()
		}
		wg.Wait()

		require.Equal(t, int64(1), fetcher.calls.Load())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{err: errors.New("boom")}
		cache := NewViewURLCache(fetcher, time.Minute)

		_, err := cache.Get(context.Background(), 7)
		require.Error(t, err)

		fetcher.err = nil
		url, err := cache.Get(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, "https://signed/7", url)
		require.Equal(t, int64(2), fetcher.calls.Load())
	})

	t.Run("Cached reports liveness without fetching", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{}
		cache := NewViewURLCache(fetcher, time.Minute)

		_, ok := cache.Cached(7)
		require.False(t, ok)

		got, err := cache.Get(context.Background(), 7)
		require.NoError(t, err)

		cached, ok := cache.Cached(7)
		require.True(t, ok)
		require.Equal(t, got, cached)
		require.Equal(t, int64(1), fetcher.calls.Load())
	})

	t.Run("caller cancellation does not poison waiters", func(t *testing.T) {
		t.Parallel()

		fetcher := &countingFetcher{delay: 50 * time.Millisecond}
		cache := NewViewURLCache(fetcher, time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		_, err := cache.Get(ctx, 7)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// The detached fetch still completes and populates the cache.
		require.Eventually(t, func() bool {
			_, ok := cache.Cached(7)
			return ok
		}, time.Second, 10*time.Millisecond)
	})
}
