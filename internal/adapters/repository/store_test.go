package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/keriv/lanecoach/internal/adapters/repository"
	"github.com/keriv/lanecoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshotWithClock(clock int) *model.Snapshot {
	return &model.Snapshot{Map: &model.MapInfo{GameTime: &clock}}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty snapshot store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)

		Convey("Then the pair starts empty", func() {
			cur, prev := store.Pair(ctx)
			So(cur, ShouldBeNil)
			So(prev, ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("When the first snapshot is ingested", func() {
			s1 := snapshotWithClock(10)
			cur, prev := store.Ingest(ctx, s1)

			Convey("Then current is set and previous is nil", func() {
				So(cur, ShouldEqual, s1)
				So(prev, ShouldBeNil)
				So(store.Current(ctx), ShouldEqual, s1)
			})
		})

		Convey("When a second snapshot is ingested", func() {
			s1 := snapshotWithClock(10)
			s2 := snapshotWithClock(11)
			store.Ingest(ctx, s1)
			cur, prev := store.Ingest(ctx, s2)

			Convey("Then the pair rotates", func() {
				So(cur, ShouldEqual, s2)
				So(prev, ShouldEqual, s1)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When readers race with rotation", func() {
			var wg sync.WaitGroup
			torn := 0
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					store.Ingest(ctx, snapshotWithClock(i))
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					cur, prev := store.Pair(ctx)
					if prev == nil {
						continue
					}
					// A consistent pair is always adjacent: previous must
					// carry a strictly older clock.
					pc, _ := prev.Clock()
					cc, _ := cur.Clock()
					if pc >= cc {
						torn++
					}
				}
			}()
			wg.Wait()

			Convey("Then every observed pair came from one rotation step", func() {
				So(torn, ShouldEqual, 0)
				So(store.Count(ctx), ShouldEqual, 1000)
			})
		})
	})
}
