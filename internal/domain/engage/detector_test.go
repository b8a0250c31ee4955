package engage_test

import (
	"testing"

	"github.com/keriv/lanecoach/internal/domain/engage"
	"github.com/keriv/lanecoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func combatSnapshot(clock int, alive bool, kills map[string]int) *model.Snapshot {
	name := "npc_dota_hero_juggernaut"
	return &model.Snapshot{
		Map:    &model.MapInfo{GameTime: &clock},
		Hero:   &model.HeroState{Name: &name, Alive: &alive},
		Player: &model.PlayerState{KillList: kills},
	}
}

func TestDetectorDeath(t *testing.T) {
	Convey("Given a detector observing the local hero", t, func() {
		d := engage.New()

		Convey("When the hero transitions from alive to dead", func() {
			prev := combatSnapshot(100, true, nil)
			cur := combatSnapshot(103, false, nil)
			d.Update(prev, nil)
			d.Update(cur, prev)

			Convey("Then exactly one death event is emitted at the later clock", func() {
				events := d.EventsFor("Juggernaut")
				So(events, ShouldHaveLength, 1)
				So(events[0].Kind, ShouldEqual, engage.KindDeath)
				So(events[0].Clock, ShouldEqual, 103)
			})

			Convey("And staying dead emits nothing further", func() {
				d.Update(combatSnapshot(106, false, nil), cur)
				So(d.EventCount(), ShouldEqual, 1)
			})
		})

		Convey("When the alive flag is absent on either side", func() {
			prev := combatSnapshot(100, true, nil)
			cur := combatSnapshot(103, false, nil)
			cur.Hero.Alive = nil
			d.Update(cur, prev)

			Convey("Then no event is emitted", func() {
				So(d.EventCount(), ShouldEqual, 0)
			})
		})

		Convey("When there is no previous snapshot", func() {
			d.Update(combatSnapshot(100, false, nil), nil)

			Convey("Then nothing is emitted", func() {
				So(d.EventCount(), ShouldEqual, 0)
			})
		})
	})
}

func TestDetectorEliminations(t *testing.T) {
	Convey("Given a detector observing the kill list", t, func() {
		d := engage.New()

		Convey("When a victim counter increases by one", func() {
			prev := combatSnapshot(200, true, map[string]int{"victimid_4": 1})
			cur := combatSnapshot(205, true, map[string]int{"victimid_4": 2})
			d.Update(cur, prev)

			Convey("Then one elimination event is emitted with a derived victim", func() {
				So(d.EventCount(), ShouldEqual, 1)
				events := d.EventsFor("player")
				So(events[0].Kind, ShouldEqual, engage.KindElimination)
				So(events[0].Victim, ShouldEqual, "opponent 4")
				So(events[0].Clock, ShouldEqual, 205)
			})
		})

		Convey("When a counter jumps by more than one", func() {
			prev := combatSnapshot(200, true, map[string]int{"victimid_2": 0})
			cur := combatSnapshot(210, true, map[string]int{"victimid_2": 3})
			d.Update(cur, prev)

			Convey("Then one event per unit of increase is emitted at the same clock", func() {
				So(d.EventCount(), ShouldEqual, 3)
				for _, e := range d.EventsFor("player") {
					So(e.Clock, ShouldEqual, 210)
				}
			})
		})

		Convey("When a victim key appears for the first time", func() {
			prev := combatSnapshot(200, true, map[string]int{})
			cur := combatSnapshot(204, true, map[string]int{"victimid_7": 1})
			d.Update(cur, prev)

			Convey("Then the full count is emitted", func() {
				So(d.EventCount(), ShouldEqual, 1)
			})
		})

		Convey("When counters are unchanged", func() {
			prev := combatSnapshot(200, true, map[string]int{"victimid_4": 2})
			cur := combatSnapshot(205, true, map[string]int{"victimid_4": 2})
			d.Update(cur, prev)

			Convey("Then nothing is emitted", func() {
				So(d.EventCount(), ShouldEqual, 0)
			})
		})

		Convey("When a duplicate snapshot is diffed against itself", func() {
			prev := combatSnapshot(200, true, map[string]int{"victimid_4": 2})
			d.Update(prev, prev)

			Convey("Then the event count does not change", func() {
				So(d.EventCount(), ShouldEqual, 0)
			})
		})
	})
}

func TestDetectorStateMachine(t *testing.T) {
	Convey("Given a calm detector", t, func() {
		d := engage.New()

		feed := func(clock, kills int) {
			prev := combatSnapshot(clock-1, true, map[string]int{"victimid_1": kills - 1})
			cur := combatSnapshot(clock, true, map[string]int{"victimid_1": kills})
			d.Update(cur, prev)
		}

		Convey("When three events land within a 20 second span", func() {
			feed(100, 1)
			feed(110, 2)
			feed(118, 3)

			Convey("Then the detector transitions to engaged", func() {
				So(d.Engaged(), ShouldBeTrue)
				status := d.StatusAt(120)
				So(status.Active, ShouldBeTrue)
				So(status.Since, ShouldEqual, 118)
				So(status.Elapsed, ShouldEqual, 2)
				So(status.Advisory, ShouldContainSubstring, "team fight in progress")
			})

			Convey("And sixteen quiet seconds later it returns to calm", func() {
				quiet := combatSnapshot(134, true, map[string]int{"victimid_1": 3})
				d.Update(quiet, combatSnapshot(133, true, map[string]int{"victimid_1": 3}))
				So(d.Engaged(), ShouldBeFalse)
			})
		})

		Convey("When only two events land within sixty seconds", func() {
			feed(100, 1)
			feed(140, 2)

			Convey("Then it stays calm but reports a developing skirmish", func() {
				So(d.Engaged(), ShouldBeFalse)
				status := d.StatusAt(150)
				So(status.Active, ShouldBeFalse)
				So(status.Advisory, ShouldContainSubstring, "skirmish may be developing")
			})
		})

		Convey("When events are spread too thin for the trigger window", func() {
			feed(100, 1)
			feed(140, 2)
			feed(180, 3)

			Convey("Then it stays calm", func() {
				So(d.Engaged(), ShouldBeFalse)
			})
		})

		Convey("When no events have ever been observed", func() {
			Convey("Then the status is empty", func() {
				status := d.StatusAt(500)
				So(status.Active, ShouldBeFalse)
				So(status.Advisory, ShouldBeEmpty)
			})
		})
	})
}
