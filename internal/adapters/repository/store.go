// Package repository holds the snapshot store: the two most recent
// snapshots retained for diffing, rotated atomically on ingestion.
package repository

import (
	"context"
	"sync"

	"github.com/keriv/lanecoach/internal/domain/model"
)

// Store provides rotation and consistent-pair reads over the two most
// recent snapshots.
type Store interface {
	// Ingest rotates the held current snapshot into previous, stores s as
	// current, and returns the new pair. It never fails; a nil previous
	// means this was the first ingestion.
	Ingest(ctx context.Context, s *model.Snapshot) (current, previous *model.Snapshot)

	// Pair returns the (current, previous) snapshots produced by the most
	// recent ingestion step. Both are nil before the first ingestion.
	Pair(ctx context.Context) (current, previous *model.Snapshot)

	// Current returns the most recent snapshot, or nil.
	Current(ctx context.Context) *model.Snapshot

	// Count returns the number of snapshots ingested so far.
	Count(ctx context.Context) int64
}

// MemoryStore implements Store in memory. Rotation takes the write lock so
// readers always observe a pair from a single ingestion step.
type MemoryStore struct {
	mu       sync.RWMutex
	current  *model.Snapshot
	previous *model.Snapshot
	ingested int64
}

// NewMemoryStore creates an empty snapshot store.
func NewMemoryStore(_ context.Context) *MemoryStore {
	return &MemoryStore{}
}

// Ingest rotates current into previous and stores s as current.
func (m *MemoryStore) Ingest(_ context.Context, s *model.Snapshot) (*model.Snapshot, *model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previous = m.current
	m.current = s
	m.ingested++
	return m.current, m.previous
}

// Pair returns the latest atomically produced snapshot pair.
func (m *MemoryStore) Pair(_ context.Context) (*model.Snapshot, *model.Snapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.previous
}

// Current returns the most recent snapshot.
func (m *MemoryStore) Current(_ context.Context) *model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Count returns the number of ingested snapshots.
func (m *MemoryStore) Count(_ context.Context) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ingested
}
