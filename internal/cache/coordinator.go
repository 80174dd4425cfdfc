// ABOUTME: Mutation coordinator performing writes and invalidating their blast radius
// ABOUTME: Invalidation runs before any success notification so re-reads see new state

package cache

import (
	"context"

	"github.com/Games-on/arena-cli/internal/notify"
)

// Mutation is a write operation plus its statically declared invalidation
// blast radius: the cache key classes that no longer reflect server state
// once the write succeeds.
type Mutation struct {
	// Name identifies the operation ("news.delete") in notifications.
	Name string
	// Invalidates lists the key classes to mark stale on success.
	Invalidates []string
	// Message, when set, is surfaced as a success notification.
	Message string
	// Op performs the write and returns the server's payload.
	Op func(ctx context.Context) (any, error)
}

// MutationResult reports a completed write and the key classes it staled.
type MutationResult struct {
	Data     any
	Affected []string
}

// Coordinator runs mutations against the remote service. A failed mutation
// invalidates nothing: the cache still reflects true server state.
type Coordinator struct {
	cache    *Cache
	notifier *notify.Notifier
}

func NewCoordinator(c *Cache, n *notify.Notifier) *Coordinator {
	return &Coordinator{cache: c, notifier: n}
}

// Do executes the mutation. On success the declared classes are invalidated
// before the success notification fires, so a read triggered by the user
// seeing the notification always refetches.
func (co *Coordinator) Do(ctx context.Context, m Mutation) (*MutationResult, error) {
	data, err := m.Op(ctx)
	if err != nil {
		return nil, err
	}

	co.cache.Invalidate(m.Invalidates...)

	if co.notifier != nil && m.Message != "" {
		co.notifier.Success("mutation", m.Name, m.Message)
	}

	return &MutationResult{Data: data, Affected: m.Invalidates}, nil
}
