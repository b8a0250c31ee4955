// Package dedupe guards the ingestion path against duplicate snapshot
// deliveries. The game client re-sends identical payloads when nothing
// changed between pushes; keys are derived from the payload, not assigned
// by us, so a bounded seen-set is enough.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds the seen-set. A match produces well under this many
// distinct keys, so eviction only matters for very long sessions.
const defaultMaxSize = 50000

// Deduper records seen snapshot keys for at-most-once enqueueing.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets a key, allowing redelivery. Used when a recorded
	// snapshot failed to enqueue and should be accepted again.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// ringDeduper implements Deduper with a map plus a fixed-size ring of keys
// in insertion order. When the ring is full the oldest key is evicted.
type ringDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*ringDeduper)

// WithMaxSize bounds the number of retained keys.
func WithMaxSize(n int) Option {
	return func(d *ringDeduper) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

// New creates a bounded deduper with configuration options.
func New(opts ...Option) Deduper {
	d := &ringDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.ring = make([]string, d.maxSize)
	return d
}

func (d *ringDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = key
	d.next = (d.next + 1) % d.maxSize
	d.seen[key] = struct{}{}
	return false
}

func (d *ringDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}

func (d *ringDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
