// Package dedupe tracks which market events have already been fetched.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event ids so each is fetched at most once per run.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded, recording it
	// if not. The check and the write are atomic.
	SeenAndRecord(ctx context.Context, id string) bool

	// Reset forgets every id.
	Reset(ctx context.Context)

	Size() int
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds the number of remembered ids. The oldest id is dropped
// first once the bound is reached. Zero or less means unbounded.
func WithMaxSize(n int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = n
	}
}

type memoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryDeduper creates a Deduper backed by a map.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &memoryDeduper{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *memoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	return false
}

func (d *memoryDeduper) Reset(context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
	d.order = nil
}

func (d *memoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// evictOldest must be called with d.mu held.
func (d *memoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order = d.order[1:]
}
