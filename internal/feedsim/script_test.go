package feedsim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewScript(t *testing.T) {
	Convey("Given a scripted match", t, func() {
		script := NewScript(150, 5)

		Convey("Then clocks strictly increase", func() {
			last := -1
			for _, snap := range script {
				clock, ok := snap.Clock()
				So(ok, ShouldBeTrue)
				So(clock, ShouldBeGreaterThan, last)
				last = clock
			}
		})

		Convey("Then elimination counters never decrease", func() {
			last := 0
			for _, snap := range script {
				kills := snap.Player.KillList["victimid_2"]
				So(kills, ShouldBeGreaterThanOrEqualTo, last)
				last = kills
			}
			So(last, ShouldEqual, skirmishKills)
		})

		Convey("Then the hero dies and respawns on schedule", func() {
			for _, snap := range script {
				clock, _ := snap.Clock()
				alive := *snap.Hero.Alive
				if clock >= deathClock && clock < respawnClock {
					So(alive, ShouldBeFalse)
				} else {
					So(alive, ShouldBeTrue)
				}
			}
		})

		Convey("Then the rotating support appears after the five minute mark", func() {
			for _, snap := range script {
				clock, _ := snap.Clock()
				_, present := snap.Minimap["o2"]
				So(present, ShouldEqual, clock >= 300)
			}
		})

		Convey("Then every tick carries a distinct provider timestamp", func() {
			seen := map[int64]bool{}
			for _, snap := range script {
				ts := *snap.Provider.Timestamp
				So(seen[ts], ShouldBeFalse)
				seen[ts] = true
			}
		})
	})
}
