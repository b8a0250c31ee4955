package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/keriv/lanecoach/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRingDeduper(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		ctx := context.Background()

		Convey("When recording a new key", func() {
			d := dedupe.New()
			seen := d.SeenAndRecord(ctx, "1710000000_321")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(d.SeenAndRecord(ctx, "1710000000_321"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is unrecorded", func() {
			d := dedupe.New()
			d.SeenAndRecord(ctx, "k")
			d.Unrecord(ctx, "k")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "k"), ShouldBeFalse)
			})
		})

		Convey("When more keys arrive than the bound", func() {
			d := dedupe.New(dedupe.WithMaxSize(3))
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i))
			}

			Convey("Then the oldest keys are evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k0"), ShouldBeFalse) // evicted, re-recordable
				So(d.SeenAndRecord(ctx, "k4"), ShouldBeTrue)  // still retained
			})
		})

		Convey("When accessed concurrently", func() {
			d := dedupe.New()
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i))
					}
				}()
			}
			wg.Wait()

			Convey("Then each distinct key is recorded once", func() {
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
