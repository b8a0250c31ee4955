// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/keriv/lanecoach/internal/adapters/dump"
	snapqueue "github.com/keriv/lanecoach/internal/adapters/mq/queue"
	"github.com/keriv/lanecoach/internal/adapters/mq/worker"
	"github.com/keriv/lanecoach/internal/adapters/repository"
	"github.com/keriv/lanecoach/internal/domain/advise"
	"github.com/keriv/lanecoach/internal/domain/dedupe"
	"github.com/keriv/lanecoach/internal/domain/engage"
	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/sample"
	"github.com/keriv/lanecoach/internal/domain/track"
	"github.com/keriv/lanecoach/internal/domain/types"
	"github.com/keriv/lanecoach/pkg/logger"
	"github.com/keriv/lanecoach/pkg/metrics"
)

// Service implements the API dependencies for the coaching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	queue    *snapqueue.InMemoryQueue
	tracker  *track.Tracker
	detector *engage.Detector
	sampler  *sample.Sampler
	advisor  *advise.Advisor
	pipeline *worker.Pipeline
	dumper   *dump.Writer

	// Configuration
	queueSize       int
	dedupeSize      int
	historyLimit    int
	seriesLimit     int
	describeWindow  int
	predictWindow   int
	engageQuiet     int
	engageWindow    int
	engageThreshold int
	proximityUnits  int
	dumpDir         string
	dumpInterval    time.Duration

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the snapshot queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryLimit caps retained position observations per enemy.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithSeriesLimit caps retained samples per performance series.
func WithSeriesLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seriesLimit = n
		}
	}
}

// WithTrackingWindows sets the describe and predict windows in seconds.
func WithTrackingWindows(describe, predict int) Option {
	return func(s *Service) {
		if describe > 0 {
			s.describeWindow = describe
		}
		if predict > 0 {
			s.predictWindow = predict
		}
	}
}

// WithEngagementTuning sets the fight-detection parameters.
func WithEngagementTuning(quiet, window, threshold int) Option {
	return func(s *Service) {
		if quiet > 0 {
			s.engageQuiet = quiet
		}
		if window > 0 {
			s.engageWindow = window
		}
		if threshold > 0 {
			s.engageThreshold = threshold
		}
	}
}

// WithProximityUnits sets the predicted-position warning radius.
func WithProximityUnits(units int) Option {
	return func(s *Service) {
		if units > 0 {
			s.proximityUnits = units
		}
	}
}

// WithDump enables periodic state dumps into dir.
func WithDump(dir string, interval time.Duration) Option {
	return func(s *Service) {
		s.dumpDir = dir
		if interval > 0 {
			s.dumpInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       4096,
		dedupeSize:      50000,
		historyLimit:    100,
		seriesLimit:     20,
		describeWindow:  60,
		predictWindow:   30,
		engageQuiet:     15,
		engageWindow:    30,
		engageThreshold: 3,
		proximityUnits:  2000,
		dumpInterval:    5 * time.Minute,
		logger:          nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting coaching service...")

	s.store = repository.NewMemoryStore(ctx)
	s.deduper = dedupe.New(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = snapqueue.NewInMemoryQueue(
		snapqueue.WithCapacity(s.queueSize),
	)
	s.tracker = track.New(
		track.WithHistoryLimit(s.historyLimit),
		track.WithDescribeWindow(s.describeWindow),
		track.WithPredictWindow(s.predictWindow),
	)
	s.detector = engage.New(
		engage.WithQuietSeconds(s.engageQuiet),
		engage.WithWindow(s.engageWindow, s.engageThreshold),
	)
	s.sampler = sample.New(
		sample.WithSeriesLimit(s.seriesLimit),
	)
	s.advisor = advise.New(
		advise.WithProximityUnits(s.proximityUnits),
	)

	s.pipeline = worker.NewPipeline(s.queue, s.store, s.tracker, s.detector, s.sampler,
		worker.WithLogger(s.logger.Named("pipeline")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.pipeline.Run(runCtx)

	if s.dumpDir != "" {
		s.dumper = dump.NewWriter(s.store, s.dumpDir,
			dump.WithInterval(s.dumpInterval),
			dump.WithTracking(s.tracker),
			dump.WithLogger(s.logger.Named("dump")),
		)
		go s.dumper.Run(runCtx)
	}

	s.started = true
	s.logger.Info(ctx, "coaching service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("historyLimit", s.historyLimit),
		logger.Bool("dumpsEnabled", s.dumpDir != ""),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping coaching service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pipeline != nil {
		if err := s.pipeline.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "pipeline did not stop cleanly", logger.Error(err))
		}
	}
	if s.dumper != nil {
		s.dumper.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "coaching service stopped")
}

// SeenAndRecord atomically checks if a snapshot key was seen and records it
// if not. Returns true if the snapshot was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	return s.deduper.SeenAndRecord(ctx, key)
}

// Unrecord removes a snapshot key from the seen list, allowing redelivery.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a snapshot for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, snap *model.Snapshot) bool {
	s.logger.Debug(ctx, "received snapshot",
		logger.String("ingestID", snap.IngestID),
	)
	return s.queue.Enqueue(ctx, snap)
}

// Insights returns the full composed advisory list for the current instant.
func (s *Service) Insights(ctx context.Context) []string {
	cur := s.store.Current(ctx)
	if cur == nil {
		return nil
	}
	clock, _ := cur.Clock()

	in := advise.Input{
		Snapshot:    cur,
		Engagement:  s.detector.StatusAt(clock),
		Tracking:    s.tracker.DescribeRecent(clock),
		Predictions: s.tracker.Predict(clock),
		Metrics:     s.sampler.Report(clock),
	}
	return s.advisor.Compose(in)
}

// GameTime returns the formatted game clock, or an empty string before the
// first snapshot arrives.
func (s *Service) GameTime(ctx context.Context) string {
	cur := s.store.Current(ctx)
	if cur == nil {
		return ""
	}
	clock, ok := cur.Clock()
	if !ok {
		return ""
	}
	return model.FormatClock(clock)
}

// Enemies returns tracked hostile units as last observed.
func (s *Service) Enemies(ctx context.Context) []types.EnemySighting {
	cur := s.store.Current(ctx)
	if cur == nil {
		return nil
	}
	clock, _ := cur.Clock()
	sightings := s.tracker.Enemies(clock)
	metrics.UpdateTrackedEnemies(len(sightings))
	return sightings
}

// Predictions returns extrapolated enemy positions, flagged for proximity.
func (s *Service) Predictions(ctx context.Context) []types.Prediction {
	cur := s.store.Current(ctx)
	if cur == nil {
		return nil
	}
	clock, _ := cur.Clock()
	return s.advisor.FlagPredictions(cur, s.tracker.Predict(clock))
}

// EngagementStatus returns the current fight-detection state.
func (s *Service) EngagementStatus(ctx context.Context) types.Engagement {
	cur := s.store.Current(ctx)
	if cur == nil {
		return types.Engagement{}
	}
	clock, _ := cur.Clock()
	return s.detector.StatusAt(clock)
}

// PerformanceReport returns the sampled farm-metric report.
func (s *Service) PerformanceReport(ctx context.Context) []string {
	cur := s.store.Current(ctx)
	if cur == nil {
		return nil
	}
	clock, _ := cur.Clock()
	return s.sampler.Report(clock)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["snapshots"] = s.store.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["combatEvents"] = s.detector.EventCount()
		stats["engaged"] = s.detector.Engaged()
	}

	return stats
}
