package service

import (
	"context"
	"testing"
	"time"

	"github.com/keriv/lanecoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceOptions(t *testing.T) {
	_ = logger.Init()

	Convey("Given service construction", t, func() {
		Convey("When built with defaults", func() {
			s := New()

			So(s.queueSize, ShouldEqual, 4096)
			So(s.dedupeSize, ShouldEqual, 50000)
			So(s.historyLimit, ShouldEqual, 100)
			So(s.seriesLimit, ShouldEqual, 20)
			So(s.engageQuiet, ShouldEqual, 15)
			So(s.engageThreshold, ShouldEqual, 3)
			So(s.proximityUnits, ShouldEqual, 2000)
		})

		Convey("When options override defaults", func() {
			s := New(
				WithQueueSize(128),
				WithDedupeSize(256),
				WithHistoryLimit(10),
				WithSeriesLimit(5),
				WithTrackingWindows(90, 45),
				WithEngagementTuning(20, 40, 4),
				WithProximityUnits(1500),
				WithDump("/tmp/dumps", time.Minute),
			)

			So(s.queueSize, ShouldEqual, 128)
			So(s.dedupeSize, ShouldEqual, 256)
			So(s.historyLimit, ShouldEqual, 10)
			So(s.seriesLimit, ShouldEqual, 5)
			So(s.describeWindow, ShouldEqual, 90)
			So(s.predictWindow, ShouldEqual, 45)
			So(s.engageQuiet, ShouldEqual, 20)
			So(s.engageWindow, ShouldEqual, 40)
			So(s.engageThreshold, ShouldEqual, 4)
			So(s.proximityUnits, ShouldEqual, 1500)
			So(s.dumpDir, ShouldEqual, "/tmp/dumps")
			So(s.dumpInterval, ShouldEqual, time.Minute)
		})

		Convey("When invalid option values are given, defaults survive", func() {
			s := New(WithQueueSize(0), WithHistoryLimit(-1))

			So(s.queueSize, ShouldEqual, 4096)
			So(s.historyLimit, ShouldEqual, 100)
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	_ = logger.Init()

	Convey("Given a service", t, func() {
		ctx := context.Background()
		s := New(WithQueueSize(16))

		Convey("When started twice", func() {
			So(s.Start(ctx), ShouldBeNil)
			defer s.Stop()

			Convey("Then the second start is a no-op", func() {
				So(s.Start(ctx), ShouldBeNil)
				So(s.GetStats()["started"], ShouldBeTrue)
			})
		})

		Convey("When stopped without starting", func() {
			So(func() { s.Stop() }, ShouldNotPanic)
		})

		Convey("When queried before any snapshot arrives", func() {
			So(s.Start(ctx), ShouldBeNil)
			defer s.Stop()

			So(s.Insights(ctx), ShouldBeNil)
			So(s.Enemies(ctx), ShouldBeNil)
			So(s.EngagementStatus(ctx).Active, ShouldBeFalse)
			So(s.PerformanceReport(ctx), ShouldBeNil)
		})
	})
}

func TestServiceDedupe(t *testing.T) {
	_ = logger.Init()

	Convey("Given a started service", t, func() {
		ctx := context.Background()
		s := New(WithQueueSize(16))
		So(s.Start(ctx), ShouldBeNil)
		defer s.Stop()

		Convey("When the same key is recorded twice", func() {
			So(s.SeenAndRecord(ctx, "1712345678_812"), ShouldBeFalse)
			So(s.SeenAndRecord(ctx, "1712345678_812"), ShouldBeTrue)

			Convey("Then unrecording allows redelivery", func() {
				s.Unrecord(ctx, "1712345678_812")
				So(s.SeenAndRecord(ctx, "1712345678_812"), ShouldBeFalse)
				So(s.Size(), ShouldEqual, 1)
			})
		})
	})
}
