package feedsim

import (
	"time"

	"github.com/google/uuid"

	"github.com/keriv/lanecoach/internal/domain/model"
)

// Scripted match tuning. The numbers sketch an ordinary laning phase that
// boils over into a mid-game skirmish.
const (
	baseGPM        = 310
	baseXPM        = 360
	lastHitsPerMin = 5
	goldPerTick    = 35

	skirmishStart = 480
	skirmishKills = 3
	deathClock    = 500
	respawnClock  = 520
)

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }

// NewScript builds the snapshot sequence for one simulated match. Clocks
// are strictly increasing; counters only grow, matching what the game
// client emits.
func NewScript(ticks, clockStep int) []*model.Snapshot {
	matchID := uuid.NewString()
	baseTS := time.Now().Unix()

	script := make([]*model.Snapshot, 0, ticks)
	for i := 0; i < ticks; i++ {
		clock := i * clockStep
		script = append(script, tickSnapshot(matchID, baseTS, clock))
	}
	return script
}

func tickSnapshot(matchID string, baseTS int64, clock int) *model.Snapshot {
	ts := baseTS + int64(clock)
	alive := clock < deathClock || clock >= respawnClock
	kills := killsAt(clock)

	s := &model.Snapshot{
		Provider: &model.Provider{
			Name:      strp("dota2"),
			Timestamp: &ts,
		},
		Map: &model.MapInfo{
			MatchID:   &matchID,
			GameTime:  intp(clock),
			ClockTime: intp(clock),
			GameState: strp("DOTA_GAMERULES_STATE_GAME_IN_PROGRESS"),
		},
		Player: &model.PlayerState{
			Name:     strp("simplayer"),
			TeamName: strp("radiant"),
			Kills:    intp(kills),
			Deaths:   intp(deathsAt(clock)),
			LastHits: intp(clock * lastHitsPerMin / 60),
			Gold:     intp(200 + clock*goldPerTick/10),
			GPM:      intp(baseGPM + clock/30),
			XPM:      intp(baseXPM + clock/25),
			KillList: map[string]int{"victimid_2": kills},
		},
		Hero: &model.HeroState{
			Name:  strp("npc_dota_hero_lina"),
			Level: intp(1 + clock/120),
			Alive: boolp(alive),
			XPos:  intp(-1200),
			YPos:  intp(-900),
		},
		Minimap: enemiesAt(clock),
	}
	return s
}

// killsAt ramps the elimination counter through the scripted skirmish.
func killsAt(clock int) int {
	if clock < skirmishStart {
		return 0
	}
	n := (clock-skirmishStart)/10 + 1
	if n > skirmishKills {
		n = skirmishKills
	}
	return n
}

func deathsAt(clock int) int {
	if clock >= deathClock {
		return 1
	}
	return 0
}

// enemiesAt places hostile minimap markers: one mid-laner pacing east and,
// from the five minute mark, a rotating support drifting south toward the
// player's lane.
func enemiesAt(clock int) map[string]model.MinimapMarker {
	markers := map[string]model.MinimapMarker{
		"o1": {
			Image: model.MarkerEnemyIcon,
			Name:  strp("npc_dota_hero_axe"),
			Team:  model.TeamDire,
			XPos:  -800 + clock*4,
			YPos:  -600,
		},
	}
	if clock >= 300 {
		markers["o2"] = model.MinimapMarker{
			Image: model.MarkerEnemyIcon,
			Name:  strp("npc_dota_hero_lion"),
			Team:  model.TeamDire,
			XPos:  500,
			YPos:  2000 - (clock-300)*6,
		}
	}
	return markers
}
