package service

import (
	"context"
	"testing"
	"time"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }
func int64p(v int64) *int64 { return &v }

// matchSnapshot builds one tick of a scripted match from the radiant side.
func matchSnapshot(clock, kills, lastHits, gold int, enemyX int) *model.Snapshot {
	return &model.Snapshot{
		Provider: &model.Provider{Timestamp: int64p(1712345678 + int64(clock))},
		Map:      &model.MapInfo{GameTime: &clock, ClockTime: &clock},
		Player: &model.PlayerState{
			TeamName: strp("radiant"),
			GPM:      intp(300),
			XPM:      intp(350),
			LastHits: &lastHits,
			Gold:     &gold,
			KillList: map[string]int{"victimid_2": kills},
		},
		Hero: &model.HeroState{
			Name:  strp("npc_dota_hero_lina"),
			Alive: boolp(true),
			XPos:  intp(0),
			YPos:  intp(0),
		},
		Minimap: map[string]model.MinimapMarker{
			"o1": {
				Image: model.MarkerEnemyIcon,
				Name:  strp("npc_dota_hero_axe"),
				Team:  model.TeamDire,
				XPos:  enemyX,
				YPos:  100,
			},
		},
	}
}

func TestServiceEndToEnd(t *testing.T) {
	_ = logger.Init()

	Convey("Given a running service fed a scripted match", t, func() {
		ctx := context.Background()
		s := New(WithQueueSize(64))
		So(s.Start(ctx), ShouldBeNil)
		defer s.Stop()

		feed := []*model.Snapshot{
			matchSnapshot(100, 0, 20, 400, 1000),
			matchSnapshot(110, 1, 22, 500, 1200),
			matchSnapshot(118, 2, 24, 600, 1400),
			matchSnapshot(120, 3, 25, 650, 1500),
		}
		for _, snap := range feed {
			So(s.Enqueue(ctx, snap), ShouldBeTrue)
		}

		// Wait for the pipeline to drain.
		deadline := time.After(2 * time.Second)
		for {
			if n, ok := s.GetStats()["snapshots"].(int64); ok && n == int64(len(feed)) {
				break
			}
			select {
			case <-deadline:
				t.Fatal("pipeline did not drain in time")
			case <-time.After(5 * time.Millisecond):
			}
		}

		Convey("Then three quick eliminations flip the engagement state", func() {
			status := s.EngagementStatus(ctx)
			So(status.Active, ShouldBeTrue)
			So(status.Advisory, ShouldContainSubstring, "team fight in progress")
		})

		Convey("Then the tracker reports the sighted enemy", func() {
			enemies := s.Enemies(ctx)
			So(enemies, ShouldHaveLength, 1)
			So(enemies[0].Name, ShouldEqual, "Axe")
			So(enemies[0].X, ShouldEqual, 1500)
		})

		Convey("Then predictions place the enemy inside the warning radius", func() {
			preds := s.Predictions(ctx)
			So(preds, ShouldHaveLength, 1)
			// Zero clock lead, so the extrapolation sits on the last sighting.
			So(preds[0].X, ShouldEqual, 1500)
			So(preds[0].Nearby, ShouldBeTrue)
		})

		Convey("Then the performance report carries the sampled metrics", func() {
			report := s.PerformanceReport(ctx)
			So(report, ShouldNotBeEmpty)
			So(report[0], ShouldContainSubstring, "GPM: 300")
		})

		Convey("Then the composed insights lead with the engagement advisory", func() {
			insights := s.Insights(ctx)
			So(insights, ShouldNotBeEmpty)
			So(insights[0], ShouldContainSubstring, "team fight in progress")
		})

		Convey("Then stats reflect the processed feed", func() {
			stats := s.GetStats()
			So(stats["combatEvents"], ShouldEqual, 3)
			So(stats["engaged"], ShouldBeTrue)
		})
	})
}
