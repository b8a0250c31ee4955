package metrics_test

import (
	"testing"

	"github.com/keriv/lanecoach/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(registry))

		Convey("Then construction registers the full metric set", func() {
			So(m, ShouldNotBeNil)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Counters without observations still register lazily; gauges
			// appear immediately.
			So(len(families), ShouldBeGreaterThan, 0)
		})

		Convey("When constructing with a custom namespace", func() {
			registry2 := prometheus.NewRegistry()
			m2 := metrics.NewManager(
				metrics.WithPrometheusRegistry(registry2),
				metrics.WithNamespace("custom"),
				metrics.WithSubsystem("analysis"),
			)

			Convey("Then it builds without collision", func() {
				So(m2, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording through every helper", func() {
			metrics.RecordSnapshotIngested()
			metrics.RecordSnapshotDuplicate()
			metrics.RecordSnapshotDropped()
			metrics.RecordSnapshotStale()
			metrics.RecordPipelineLatency(1.5)
			metrics.RecordEventsDetected(3)
			metrics.RecordEventsDetected(0)
			metrics.UpdateTrackedEnemies(4)
			metrics.UpdateEngagementActive(true)
			metrics.UpdateEngagementActive(false)
			metrics.RecordDumpWrite()
			metrics.RecordDumpError()
			metrics.UpdateQueueSize(7)
			metrics.UpdateQueueCapacity(100)
			metrics.UpdateQueueUtilization(0.07)
			metrics.RecordHTTPRequest("insights", "GET", "200")
			metrics.RecordHTTPRequestDuration("insights", "GET", "200", 2.0)
			metrics.UpdateSystemMemoryUsage(1 << 20)
			metrics.UpdateSystemGoroutineCount(12)

			Convey("Then the shared registry gathers without error", func() {
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 10)
			})
		})
	})
}
