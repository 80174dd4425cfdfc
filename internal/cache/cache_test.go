// ABOUTME: Tests for the remote-data cache
// ABOUTME: Covers staleness windows, shared fetches, and previous-data reads

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingFetcher(count *atomic.Int64, value any) Fetcher {
	return func(ctx context.Context) (any, error) {
		count.Add(1)
		return value, nil
	}
}

func TestRead_FreshHitSkipsFetch(t *testing.T) {
	c := New(5 * time.Minute)
	key := Key{Class: "tournaments", Params: "page=1"}

	var fetches atomic.Int64
	fetch := countingFetcher(&fetches, "v1")

	res, err := c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, "v1", res.Data)

	res, err = c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, "v1", res.Data)
	assert.False(t, res.Loading)
	assert.Equal(t, int64(1), fetches.Load(), "fresh entry must not refetch")
}

func TestRead_DistinctParamsAreDistinctEntries(t *testing.T) {
	c := New(5 * time.Minute)

	var fetches atomic.Int64
	fetch := countingFetcher(&fetches, "v")

	_, err := c.Read(context.Background(), Key{Class: "tournaments", Params: "page=1"}, fetch, Options{})
	require.NoError(t, err)
	_, err = c.Read(context.Background(), Key{Class: "tournaments", Params: "page=2"}, fetch, Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), fetches.Load())
}

func TestRead_ConcurrentReadersShareOneFetch(t *testing.T) {
	c := New(5 * time.Minute)
	key := Key{Class: "news", Params: ""}

	var fetches atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		<-release
		return "shared", nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]Result, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Read(context.Background(), key, fetch, Options{})
			require.NoError(t, err)
			results[i] = res
		}(i)
	}

	// Let every reader reach the singleflight group before the fetch
	// completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load(), "concurrent readers of one key share one request")
	for _, res := range results {
		assert.Equal(t, "shared", res.Data)
	}
}

func TestRead_ExpiredEntryRefetches(t *testing.T) {
	c := New(5 * time.Minute)
	c.SetClassTTL("news", 2*time.Minute)

	clock := time.Now()
	c.now = func() time.Time { return clock }

	key := Key{Class: "news", Params: ""}
	var fetches atomic.Int64
	fetch := countingFetcher(&fetches, "v")

	_, err := c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)

	// Inside the class window: served from cache.
	clock = clock.Add(time.Minute)
	_, err = c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetches.Load())

	// Past the class window, still inside the default one: refetched.
	clock = clock.Add(90 * time.Second)
	_, err = c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetches.Load())
}

func TestInvalidate_MarksClassStale(t *testing.T) {
	c := New(5 * time.Minute)

	var fetches atomic.Int64
	fetch := countingFetcher(&fetches, "v")

	listKey := Key{Class: "news", Params: "page=1"}
	itemKey := Key{Class: "news-item", Params: "id=3"}
	_, err := c.Read(context.Background(), listKey, fetch, Options{})
	require.NoError(t, err)
	_, err = c.Read(context.Background(), itemKey, fetch, Options{})
	require.NoError(t, err)

	c.Invalidate("news")

	_, err = c.Read(context.Background(), listKey, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), fetches.Load(), "invalidated class must refetch")

	_, err = c.Read(context.Background(), itemKey, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), fetches.Load(), "untouched class must stay cached")
}

func TestRead_KeepPreviousDataServesStaleWhileRefreshing(t *testing.T) {
	c := New(5 * time.Minute)
	key := Key{Class: "admin-news", Params: "page=1"}

	var fetches, version atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return version.Add(1), nil
	}

	res, err := c.Read(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Data)

	c.Invalidate("admin-news")

	res, err = c.Read(context.Background(), key, fetch, Options{KeepPreviousData: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Data, "stale read must serve the previous data immediately")
	assert.True(t, res.Loading)
	assert.True(t, res.Stale)

	// The background refresh eventually lands.
	require.Eventually(t, func() bool {
		return fetches.Load() == 2
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		res, err := c.Read(context.Background(), key, fetch, Options{})
		v, _ := res.Data.(int64)
		return err == nil && v >= 2 && !res.Loading
	}, time.Second, 5*time.Millisecond)
}

func TestRead_KeepPreviousDataWithoutEntryBlocks(t *testing.T) {
	c := New(5 * time.Minute)

	var fetches atomic.Int64
	fetch := countingFetcher(&fetches, "first")

	res, err := c.Read(context.Background(), Key{Class: "news", Params: ""}, fetch, Options{KeepPreviousData: true})
	require.NoError(t, err)
	assert.Equal(t, "first", res.Data, "nothing previous to keep; the read must block on the fetch")
	assert.False(t, res.Loading)
}

func TestRead_FetchErrorPropagates(t *testing.T) {
	c := New(5 * time.Minute)

	boom := errors.New("boom")
	_, err := c.Read(context.Background(), Key{Class: "news", Params: ""}, func(ctx context.Context) (any, error) {
		return nil, boom
	}, Options{})
	assert.ErrorIs(t, err, boom)

	// A failed fetch stores nothing; the next read tries again.
	var fetches atomic.Int64
	res, err := c.Read(context.Background(), Key{Class: "news", Params: ""}, countingFetcher(&fetches, "ok"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Data)
}
