// Package metrics provides Prometheus metrics for the lanecoach service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics.
	snapshotsIngested  prometheus.Counter
	snapshotsDuplicate prometheus.Counter
	snapshotsDropped   prometheus.Counter
	snapshotsStale     prometheus.Counter
	pipelineLatency    prometheus.Histogram

	// Derived-state metrics.
	eventsDetected   prometheus.Counter
	trackedEnemies   prometheus.Gauge
	engagementActive prometheus.Gauge
	dumpWrites       prometheus.Counter
	dumpErrors       prometheus.Counter

	// Queue metrics.
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager, registered on a private registry so the default
// Go collectors stay out of /healthz output.
var (
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lanecoach",
		subsystem:        "coach",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates and registers all metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.snapshotsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_ingested_total",
		Help:      "Total number of snapshots accepted into the pipeline",
	})
	m.snapshotsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_duplicate_total",
		Help:      "Total number of duplicate snapshot deliveries short-circuited at ingestion",
	})
	m.snapshotsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_dropped_total",
		Help:      "Total number of snapshots dropped on queue backpressure",
	})
	m.snapshotsStale = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_stale_total",
		Help:      "Total number of snapshots whose game clock did not advance",
	})
	m.pipelineLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_latency_milliseconds",
		Help:      "Histogram of per-snapshot analysis latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.eventsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "combat_events_total",
		Help:      "Total number of death and elimination events detected",
	})
	m.trackedEnemies = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_enemies",
		Help:      "Number of hostile units with a recent sighting",
	})
	m.engagementActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "engagement_active",
		Help:      "1 while the engagement classifier reports an active fight",
	})
	m.dumpWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dump_writes_total",
		Help:      "Total number of debug state dumps written",
	})
	m.dumpErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dump_errors_total",
		Help:      "Total number of failed debug state dumps",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued snapshots",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured snapshot queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue fill ratio between 0 and 1",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers against the global manager.

// RecordSnapshotIngested counts an accepted snapshot.
func RecordSnapshotIngested() { globalManager.snapshotsIngested.Inc() }

// RecordSnapshotDuplicate counts a short-circuited duplicate delivery.
func RecordSnapshotDuplicate() { globalManager.snapshotsDuplicate.Inc() }

// RecordSnapshotDropped counts a snapshot dropped on backpressure.
func RecordSnapshotDropped() { globalManager.snapshotsDropped.Inc() }

// RecordSnapshotStale counts a snapshot whose clock did not advance.
func RecordSnapshotStale() { globalManager.snapshotsStale.Inc() }

// RecordPipelineLatency observes one snapshot's analysis latency.
func RecordPipelineLatency(latencyMs float64) { globalManager.pipelineLatency.Observe(latencyMs) }

// RecordEventsDetected counts newly detected combat events.
func RecordEventsDetected(n int) {
	if n > 0 {
		globalManager.eventsDetected.Add(float64(n))
	}
}

// UpdateTrackedEnemies sets the recently-sighted enemy count.
func UpdateTrackedEnemies(n int) { globalManager.trackedEnemies.Set(float64(n)) }

// UpdateEngagementActive reflects the classifier state.
func UpdateEngagementActive(active bool) {
	v := 0.0
	if active {
		v = 1.0
	}
	globalManager.engagementActive.Set(v)
}

// RecordDumpWrite counts a written debug dump.
func RecordDumpWrite() { globalManager.dumpWrites.Inc() }

// RecordDumpError counts a failed debug dump.
func RecordDumpError() { globalManager.dumpErrors.Inc() }

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the private registry for serving /healthz.
func GetRegistry() *prometheus.Registry { return customRegistry }
