// Package worker runs the analysis pipeline: one consumer that rotates the
// snapshot store and fans each consistent (current, previous) pair out to
// the analytical components.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/pkg/logger"
	"github.com/keriv/lanecoach/pkg/metrics"
)

// shutdownTimeout bounds how long Shutdown waits for the loop to drain.
const shutdownTimeout = 5 * time.Second

// Store rotates snapshots and returns the pair from one ingestion step.
type Store interface {
	Ingest(ctx context.Context, s *model.Snapshot) (current, previous *model.Snapshot)
}

// Tracker consumes the current snapshot for position tracking.
type Tracker interface {
	Update(s *model.Snapshot)
}

// Detector consumes consecutive snapshot pairs for event detection.
type Detector interface {
	Update(current, previous *model.Snapshot)
	EventCount() int
	Engaged() bool
}

// Sampler consumes the current snapshot for metric sampling.
type Sampler interface {
	Update(s *model.Snapshot)
}

// Queue defines how the pipeline receives snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *model.Snapshot
}

// Pipeline is the single pipeline consumer. Exactly one goroutine runs the
// loop so downstream components observe snapshots in arrival order and
// every (current, previous) pair comes from one rotation.
type Pipeline struct {
	queue    Queue
	store    Store
	tracker  Tracker
	detector Detector
	sampler  Sampler

	lastClock int

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates the analysis pipeline.
func NewPipeline(queue Queue, store Store, tracker Tracker, detector Detector, sampler Sampler, opts ...Option) *Pipeline {
	p := &Pipeline{
		queue:     queue,
		store:     store,
		tracker:   tracker,
		detector:  detector,
		sampler:   sampler,
		lastClock: -1,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run consumes snapshots until ctx is canceled, the queue closes, or
// Shutdown is called.
func (p *Pipeline) Run(ctx context.Context) {
	defer close(p.done)

	snapshots := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case s, ok := <-snapshots:
			if !ok {
				return
			}
			p.process(ctx, s)
		}
	}
}

// Shutdown stops the loop and waits for it to finish.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	select {
	case <-p.done:
		return nil
	case <-waitCtx.Done():
		p.logger.Warn(ctx, "pipeline shutdown timed out")
		return fmt.Errorf("pipeline shutdown: %w", waitCtx.Err())
	}
}

// process runs one snapshot through rotation and all three components.
func (p *Pipeline) process(ctx context.Context, s *model.Snapshot) {
	start := time.Now()
	defer func() {
		metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))
	}()

	current, previous := p.store.Ingest(ctx, s)

	if clock, ok := current.Clock(); ok {
		if clock <= p.lastClock {
			metrics.RecordSnapshotStale()
		} else {
			p.lastClock = clock
		}
	}

	before := p.detector.EventCount()

	// Components are independent: each reads the pair and nothing else, so
	// a missing field in one never blocks the others.
	p.tracker.Update(current)
	p.detector.Update(current, previous)
	p.sampler.Update(current)

	if emitted := p.detector.EventCount() - before; emitted > 0 {
		metrics.RecordEventsDetected(emitted)
		p.logger.Debug(ctx, "combat events detected",
			logger.Int("count", emitted),
			logger.String("ingestID", s.IngestID),
		)
	}
	metrics.UpdateEngagementActive(p.detector.Engaged())
}
