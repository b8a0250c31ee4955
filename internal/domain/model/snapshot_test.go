package model_test

import (
	"encoding/json"
	"testing"

	"github.com/keriv/lanecoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotHelpers(t *testing.T) {
	Convey("Given snapshot accessor helpers", t, func() {
		Convey("When the map block carries a game time", func() {
			gt := 754
			s := &model.Snapshot{Map: &model.MapInfo{GameTime: &gt}}
			clock, ok := s.Clock()

			Convey("Then the clock is returned", func() {
				So(ok, ShouldBeTrue)
				So(clock, ShouldEqual, 754)
			})
		})

		Convey("When the map block is absent", func() {
			s := &model.Snapshot{}
			_, ok := s.Clock()

			Convey("Then the clock is unknown", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When deriving the opposing team", func() {
			team := func(name string) *model.Snapshot {
				return &model.Snapshot{Player: &model.PlayerState{TeamName: &name}}
			}

			Convey("Then radiant players face dire", func() {
				So(team("radiant").OpposingTeamID(), ShouldEqual, model.TeamDire)
				So(team("RADIANT").OpposingTeamID(), ShouldEqual, model.TeamDire)
			})

			Convey("Then dire players face radiant", func() {
				So(team("dire").OpposingTeamID(), ShouldEqual, model.TeamRadiant)
			})

			Convey("Then an unknown team defaults to dire as hostile", func() {
				So(team("spectator").OpposingTeamID(), ShouldEqual, model.TeamDire)
				So((&model.Snapshot{}).OpposingTeamID(), ShouldEqual, model.TeamDire)
			})
		})

		Convey("When classifying minimap markers", func() {
			Convey("Then only the enemy icon tag is hostile", func() {
				So(model.MinimapMarker{Image: model.MarkerEnemyIcon}.Hostile(), ShouldBeTrue)
				So(model.MinimapMarker{Image: "minimap_ward"}.Hostile(), ShouldBeFalse)
				So(model.MinimapMarker{}.Hostile(), ShouldBeFalse)
			})
		})
	})
}

func TestNameAndClockFormatting(t *testing.T) {
	Convey("Given formatting helpers", t, func() {
		Convey("When formatting internal hero names", func() {
			So(model.FormatHeroName("npc_dota_hero_bounty_hunter"), ShouldEqual, "Bounty Hunter")
			So(model.FormatHeroName("npc_dota_hero_axe"), ShouldEqual, "Axe")
			So(model.FormatHeroName("queen_of_pain"), ShouldEqual, "Queen Of Pain")
		})

		Convey("When formatting game clocks", func() {
			So(model.FormatClock(0), ShouldEqual, "0:00")
			So(model.FormatClock(754), ShouldEqual, "12:34")
			So(model.FormatClock(-75), ShouldEqual, "-1:15")
		})
	})
}

func TestSnapshotDecoding(t *testing.T) {
	Convey("Given a raw feed payload", t, func() {
		payload := `{
			"provider": {"name": "Dota 2", "timestamp": 1710000000},
			"map": {"game_time": 321, "daytime": true, "game_state": "DOTA_GAMERULES_STATE_GAME_IN_PROGRESS"},
			"player": {"team_name": "radiant", "gold": 1250, "gpm": 412, "xpm": 480, "last_hits": 45,
				"kill_list": {"victimid_4": 2}},
			"hero": {"name": "npc_dota_hero_juggernaut", "alive": true, "xpos": -1200, "ypos": 800,
				"health_percent": 85, "mana_percent": 60},
			"minimap": {"o1": {"image": "minimap_enemyicon", "name": "npc_dota_hero_axe", "team": 3,
				"xpos": 500, "ypos": -200}},
			"unknown_future_block": {"ignored": true}
		}`

		Convey("When decoding into a Snapshot", func() {
			var s model.Snapshot
			err := json.Unmarshal([]byte(payload), &s)

			Convey("Then known fields decode and unknown blocks are tolerated", func() {
				So(err, ShouldBeNil)
				clock, ok := s.Clock()
				So(ok, ShouldBeTrue)
				So(clock, ShouldEqual, 321)
				So(s.OpposingTeamID(), ShouldEqual, model.TeamDire)
				So(*s.Player.GPM, ShouldEqual, 412)
				So(s.Player.KillList["victimid_4"], ShouldEqual, 2)
				alive, ok := s.HeroAlive()
				So(ok, ShouldBeTrue)
				So(alive, ShouldBeTrue)
				x, y, ok := s.HeroPosition()
				So(ok, ShouldBeTrue)
				So(x, ShouldEqual, -1200)
				So(y, ShouldEqual, 800)
				So(s.Minimap["o1"].Hostile(), ShouldBeTrue)
			})
		})

		Convey("When a payload omits optional blocks entirely", func() {
			var s model.Snapshot
			err := json.Unmarshal([]byte(`{}`), &s)

			Convey("Then decoding still succeeds", func() {
				So(err, ShouldBeNil)
				_, ok := s.Clock()
				So(ok, ShouldBeFalse)
			})
		})
	})
}
