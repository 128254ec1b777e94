// Package dedupe tracks decision ids for idempotency.
//
// The UI collaborator retries freely (page reloads, double clicks); a
// decision id that was already seen must be acknowledged without applying
// the rating update a second time.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen decision ids to ensure at-most-once application.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen set. Used when a decision was
	// marked as seen but failed to commit, so the client can retry it.
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of tracked ids.
	Size() int
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of ids kept in memory. Oldest entries are
// evicted first. Zero or negative means unbounded.
func WithMaxSize(n int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = n
	}
}

// inMemoryDeduper implements Deduper with a map plus FIFO eviction order.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:    make(map[string]struct{}),
		maxSize: 10_000,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)

	if d.maxSize > 0 {
		for len(d.order) > d.maxSize {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.seen, oldest)
		}
	}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
