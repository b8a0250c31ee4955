// Package dump periodically writes the current snapshot to disk as JSON.
// The files are a debugging aid: replaying them through the ingest endpoint
// reproduces the state the service saw live.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/types"
	"github.com/keriv/lanecoach/pkg/logger"
	"github.com/keriv/lanecoach/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// Source yields the snapshot to persist.
type Source interface {
	Current(ctx context.Context) *model.Snapshot
}

// TrackingSource yields the derived enemy state dumped alongside the snapshot.
type TrackingSource interface {
	Enemies(nowClock int) []types.EnemySighting
}

// Writer dumps snapshots on a fixed cadence.
type Writer struct {
	source   Source
	tracking TrackingSource
	dir      string
	interval time.Duration

	done chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithInterval sets the dump cadence.
func WithInterval(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTracking includes derived enemy sightings in each dump.
func WithTracking(t TrackingSource) Option {
	return func(w *Writer) {
		w.tracking = t
	}
}

// NewWriter creates a dump writer targeting dir.
func NewWriter(source Source, dir string, opts ...Option) *Writer {
	w := &Writer{
		source:   source,
		dir:      dir,
		interval: defaultInterval,
		done:     make(chan struct{}),
		logger:   logger.Get().Named("dump"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run writes dumps until ctx is canceled or Stop is called.
func (w *Writer) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			if err := w.WriteOnce(ctx); err != nil {
				w.logger.Warn(ctx, "state dump failed", logger.Error(err))
			}
		}
	}
}

// Stop ends the Run loop.
func (w *Writer) Stop() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}

// dumpRecord is the on-disk shape: the raw snapshot plus the derived enemy
// state at the same instant.
type dumpRecord struct {
	Snapshot *model.Snapshot       `json:"snapshot"`
	Enemies  []types.EnemySighting `json:"enemies,omitempty"`
}

// WriteOnce persists the current snapshot, if there is one. A quiet match
// start with no snapshot yet is not an error.
func (w *Writer) WriteOnce(ctx context.Context) error {
	s := w.source.Current(ctx)
	if s == nil {
		return nil
	}

	rec := dumpRecord{Snapshot: s}
	if w.tracking != nil {
		if clock, ok := s.Clock(); ok {
			rec.Enemies = w.tracking.Enemies(clock)
		}
	}

	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		metrics.RecordDumpError()
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		metrics.RecordDumpError()
		return fmt.Errorf("create dump dir: %w", err)
	}

	name := filepath.Join(w.dir, fmt.Sprintf("state_%s.json", uuid.NewString()))
	if err := os.WriteFile(name, body, 0o644); err != nil {
		metrics.RecordDumpError()
		return fmt.Errorf("write dump: %w", err)
	}

	metrics.RecordDumpWrite()
	w.logger.Debug(ctx, "state dump written", logger.String("path", name))
	return nil
}
