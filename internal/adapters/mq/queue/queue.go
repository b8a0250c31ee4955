// Package queue buffers snapshots between the ingestion boundary and the
// analysis pipeline. Enqueue never blocks: under backpressure the snapshot
// is dropped and the caller is told, matching fire-and-forget ingestion.
package queue

import (
	"context"
	"sync"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/pkg/metrics"
)

// defaultCapacity bounds the in-memory queue. The feed pushes ~10/sec, so
// this absorbs minutes of consumer stall before dropping.
const defaultCapacity = 4096

// Queue provides non-blocking enqueue and channel-based dequeue semantics
// for snapshots.
type Queue interface {
	// Enqueue adds a snapshot. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, s *model.Snapshot) bool

	// Dequeue returns a channel yielding snapshots in arrival order. The
	// channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan *model.Snapshot

	// Len returns the current queue depth.
	Len(ctx context.Context) int

	// Close stops the queue; further enqueues fail.
	Close() error
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	snapshots chan *model.Snapshot
	capacity  int
	mu        sync.RWMutex
	closed    bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the queue capacity.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.snapshots = make(chan *model.Snapshot, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a snapshot without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s *model.Snapshot) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.snapshots <- s:
		q.observeDepth()
		return true
	case <-ctx.Done():
		return false
	default:
		return false // full
	}
}

// Dequeue returns the consumer channel. Snapshots come out in the order
// they were enqueued; there is exactly one buffered channel underneath, so
// a single consumer sees the full arrival order.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan *model.Snapshot {
	out := make(chan *model.Snapshot)
	go func() {
		defer close(out)
		for s := range q.snapshots {
			select {
			case out <- s:
				q.observeDepth()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current queue depth.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.snapshots)
}

// Close shuts the queue down. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.snapshots)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) observeDepth() {
	depth := len(q.snapshots)
	metrics.UpdateQueueSize(depth)
	metrics.UpdateQueueUtilization(float64(depth) / float64(q.capacity))
}
