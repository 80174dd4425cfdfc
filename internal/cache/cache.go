// ABOUTME: Keyed store for server-fetched results with staleness windows
// ABOUTME: De-duplicates in-flight requests and keeps previous data during refetch

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cache entry: a resource class plus the query parameters
// that distinguish one view of it from another (page, search term, id).
// Invalidation targets whole classes regardless of params.
type Key struct {
	Class  string
	Params string
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Class
	}
	return k.Class + "?" + k.Params
}

// Fetcher produces the value for a key when no usable entry exists.
type Fetcher func(ctx context.Context) (any, error)

// Options tune a single read.
type Options struct {
	// KeepPreviousData serves the existing (stale) entry immediately and
	// refreshes in the background, so paginated views never flash empty
	// on page change.
	KeepPreviousData bool
}

// Result is what a read hands back to the view.
type Result struct {
	Data    any
	Loading bool // a refetch is in flight behind the returned data
	Stale   bool // the returned data is past its staleness window
}

type entry struct {
	key       Key
	data      any
	fetchedAt time.Time
	stale     bool
}

// Cache stores fetched results per key. Reads and writes for a given key are
// linearized through a singleflight group: concurrent readers of the same key
// share one underlying request.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	group      singleflight.Group
	ttls       map[string]time.Duration
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a cache whose entries go stale after defaultTTL unless their
// class has its own window via SetClassTTL.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]*entry),
		ttls:       make(map[string]time.Duration),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// SetClassTTL sets the staleness window for one key class.
func (c *Cache) SetClassTTL(class string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[class] = ttl
}

// Read returns the entry for key, fetching when it is absent or stale. A
// fresh entry returns without any network call. When the entry is stale and
// KeepPreviousData is set, the old data is returned immediately while a
// background refresh runs; otherwise Read blocks on the (shared) fetch.
func (c *Cache) Read(ctx context.Context, key Key, fetch Fetcher, opts Options) (Result, error) {
	ks := key.String()

	c.mu.Lock()
	e := c.entries[ks]
	if e != nil && !e.stale && c.now().Sub(e.fetchedAt) < c.ttlFor(key.Class) {
		data := e.data
		c.mu.Unlock()
		slog.Debug("cache hit", "key", ks)
		return Result{Data: data}, nil
	}

	if e != nil && opts.KeepPreviousData {
		data := e.data
		c.mu.Unlock()
		slog.Debug("cache stale, serving previous data", "key", ks)
		// A late result after the caller has moved on is stored, not
		// discarded; the next reader benefits. Detached from the
		// caller's context for the same reason.
		bg := context.WithoutCancel(ctx)
		go c.group.Do(ks, func() (any, error) {
			return c.fetchAndStore(bg, key, fetch)
		})
		return Result{Data: data, Loading: true, Stale: true}, nil
	}
	c.mu.Unlock()

	slog.Debug("cache miss", "key", ks)
	v, err, shared := c.group.Do(ks, func() (any, error) {
		return c.fetchAndStore(ctx, key, fetch)
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		slog.Debug("cache fetch shared with concurrent reader", "key", ks)
	}
	return Result{Data: v}, nil
}

// Invalidate marks every entry of the given classes stale immediately. Stale
// entries are refetched on next read; they are not proactively evicted.
func (c *Cache) Invalidate(classes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		for _, class := range classes {
			if e.key.Class == class {
				e.stale = true
				break
			}
		}
	}
	slog.Debug("cache invalidated", "classes", classes)
}

func (c *Cache) fetchAndStore(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key.String()] = &entry{
		key:       key,
		data:      data,
		fetchedAt: c.now(),
	}
	c.mu.Unlock()
	return data, nil
}

func (c *Cache) ttlFor(class string) time.Duration {
	if ttl, ok := c.ttls[class]; ok {
		return ttl
	}
	return c.defaultTTL
}
