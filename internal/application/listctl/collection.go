// Package listctl holds the view state shared by every CRM page: a remote
// collection cached locally, a search filter, and a form dialog whose
// mutations are followed by a full re-fetch.
package listctl

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/metrics"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Keyed items are addressed by id.
type Keyed interface {
	Key() string
}

// Matcher items can be filtered by a search term.
type Matcher interface {
	Matches(term string) bool
}

// Lister loads a whole collection from the backend.
type Lister[T any] func(ctx context.Context) ([]T, error)

// Collection caches one remote collection. Responses are applied in the order
// their fetches were issued; a response older than the one already applied is
// dropped.
type Collection[T Keyed] struct {
	resource string
	list     Lister[T]
	sink     notify.Sink
	log      zerolog.Logger

	mu      sync.Mutex
	items   []T
	loading bool
	search  string
	issued  uint64
	applied uint64
}

// NewCollection creates an empty, loading collection. resource is the plural
// noun used in messages, e.g. "contacts".
func NewCollection[T Keyed](resource string, list Lister[T], sink notify.Sink, log zerolog.Logger) *Collection[T] {
	if sink == nil {
		sink = notify.Discard
	}
	return &Collection[T]{
		resource: resource,
		list:     list,
		sink:     sink,
		log:      log.With().Str("resource", resource).Logger(),
		items:    []T{},
		loading:  true,
	}
}

// Fetch reloads the collection with its own lister.
func (c *Collection[T]) Fetch(ctx context.Context) bool {
	return c.Load(ctx, c.list)
}

// Load replaces the items with the result of list. On failure the items are
// kept and a "Failed to fetch <resource>" notification is emitted. It reports
// whether the result was applied.
func (c *Collection[T]) Load(ctx context.Context, list Lister[T]) bool {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	items, err := list(ctx)
	if err != nil {
		platformerrors.LogError(c.log, err)
		c.mu.Lock()
		if seq > c.applied {
			c.loading = false
		}
		c.mu.Unlock()
		c.sink.Notify(ctx, notify.Failure("Failed to fetch "+c.resource))
		return false
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied {
		c.log.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("discarding stale fetch")
		metrics.FetchDiscardedTotal.WithLabelValues(c.resource).Inc()
		return false
	}
	c.applied = seq
	c.items = items
	c.loading = false
	return true
}

// Clear empties the collection and invalidates fetches still in flight.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = c.issued
	c.items = []T{}
}

// Items returns a copy of the cached items in backend order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len returns the number of cached items.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Find returns the cached item with id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loading is true until the first fetch resolves.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// SetSearch stores the search term used by Visible.
func (c *Collection[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// SearchTerm returns the stored search term.
func (c *Collection[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Visible filters the cache by the stored search term.
func (c *Collection[T]) Visible() []T {
	return c.Search(c.SearchTerm())
}

// Search filters the cache by term without touching the backend. Items that
// cannot be matched are only kept for an empty term.
func (c *Collection[T]) Search(term string) []T {
	items := c.Items()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m, ok := any(item).(Matcher); ok {
			if m.Matches(term) {
				out = append(out, item)
			}
		} else if term == "" {
			out = append(out, item)
		}
	}
	return out
}
