package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/keriv/lanecoach/internal/adapters/mq/queue"
	"github.com/keriv/lanecoach/internal/adapters/mq/worker"
	"github.com/keriv/lanecoach/internal/adapters/repository"
	"github.com/keriv/lanecoach/internal/domain/engage"
	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/sample"
	"github.com/keriv/lanecoach/internal/domain/track"
	"github.com/keriv/lanecoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func feedSnapshot(clock int, alive bool, kills int) *model.Snapshot {
	team := "radiant"
	axe := "npc_dota_hero_axe"
	return &model.Snapshot{
		Map: &model.MapInfo{GameTime: &clock},
		Player: &model.PlayerState{
			TeamName: &team,
			GPM:      intp(300 + clock),
			KillList: map[string]int{"victimid_1": kills},
		},
		Hero: &model.HeroState{Alive: boolp(alive)},
		Minimap: map[string]model.MinimapMarker{
			"o1": {Image: model.MarkerEnemyIcon, Name: &axe, Team: model.TeamDire, XPos: clock * 10, YPos: 0},
		},
	}
}

func TestPipeline(t *testing.T) {
	_ = logger.Init()

	Convey("Given a wired pipeline", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		store := repository.NewMemoryStore(ctx)
		tracker := track.New()
		detector := engage.New()
		sampler := sample.New()
		p := worker.NewPipeline(q, store, tracker, detector, sampler)

		go p.Run(ctx)

		drain := func(n int64) {
			deadline := time.After(2 * time.Second)
			for store.Count(ctx) < n {
				select {
				case <-deadline:
					t.Fatal("pipeline did not drain in time")
				case <-time.After(5 * time.Millisecond):
				}
			}
		}

		Convey("When snapshots flow through", func() {
			So(q.Enqueue(ctx, feedSnapshot(10, true, 0)), ShouldBeTrue)
			So(q.Enqueue(ctx, feedSnapshot(11, true, 0)), ShouldBeTrue)
			drain(2)

			Convey("Then the store rotates and the tracker observes enemies", func() {
				cur, prev := store.Pair(ctx)
				So(cur, ShouldNotBeNil)
				So(prev, ShouldNotBeNil)
				So(tracker.Enemies(11), ShouldHaveLength, 1)
				So(sampler.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a death transition flows through", func() {
			So(q.Enqueue(ctx, feedSnapshot(20, true, 0)), ShouldBeTrue)
			So(q.Enqueue(ctx, feedSnapshot(21, false, 0)), ShouldBeTrue)
			drain(2)

			Convey("Then the detector emits exactly one event", func() {
				So(detector.EventCount(), ShouldEqual, 1)
			})
		})

		Convey("When shutdown is requested", func() {
			So(q.Enqueue(ctx, feedSnapshot(30, true, 0)), ShouldBeTrue)
			drain(1)

			Convey("Then the pipeline stops cleanly", func() {
				So(p.Shutdown(ctx), ShouldBeNil)
			})
		})
	})
}
