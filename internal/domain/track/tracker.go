// Package track maintains bounded position histories for hostile units and
// derives movement descriptions and short-horizon position predictions.
package track

import (
	"fmt"
	"sort"
	"sync"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/types"
)

// Default tracker configuration constants.
const (
	defaultHistoryLimit   = 100 // retained observations per unit
	defaultDescribeWindow = 60  // seconds a sighting stays reportable
	defaultPredictWindow  = 30  // seconds a sighting stays extrapolatable
)

// Observation is one (game-clock, position) sample for a tracked unit.
type Observation struct {
	Clock int
	X     int
	Y     int
}

// Prediction is a linear extrapolation of a unit's position.
type Prediction struct {
	Name string
	X    int
	Y    int
}

// Tracker holds per-unit position histories keyed by display name.
// A single ingestion goroutine writes; any number of consumers read.
type Tracker struct {
	mu             sync.RWMutex
	historyLimit   int
	describeWindow int
	predictWindow  int
	lastClock      int
	histories      map[string][]Observation
	timesSeen      map[string]int
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithHistoryLimit caps the number of retained observations per unit.
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.historyLimit = n
		}
	}
}

// WithDescribeWindow sets how long a sighting remains reportable, in seconds.
func WithDescribeWindow(seconds int) Option {
	return func(t *Tracker) {
		if seconds > 0 {
			t.describeWindow = seconds
		}
	}
}

// WithPredictWindow sets how long a sighting remains extrapolatable, in seconds.
func WithPredictWindow(seconds int) Option {
	return func(t *Tracker) {
		if seconds > 0 {
			t.predictWindow = seconds
		}
	}
}

// New creates a Tracker with configuration options.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		historyLimit:   defaultHistoryLimit,
		describeWindow: defaultDescribeWindow,
		predictWindow:  defaultPredictWindow,
		lastClock:      -1,
		histories:      make(map[string][]Observation),
		timesSeen:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update scans the snapshot's minimap markers and appends an observation for
// every visible hostile unit on the opposing team. A snapshot whose game
// clock does not advance past the last processed clock is ignored, which
// makes replayed and duplicate deliveries no-ops.
func (t *Tracker) Update(s *model.Snapshot) {
	clock, ok := s.Clock()
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if clock <= t.lastClock {
		return
	}
	t.lastClock = clock

	hostileTeam := s.OpposingTeamID()
	for _, m := range s.Minimap {
		if !m.Hostile() || m.Team != hostileTeam || m.Name == nil {
			continue
		}
		name := model.FormatHeroName(*m.Name)
		hist := t.histories[name]
		// Per-unit clocks stay non-decreasing even if the global guard
		// ever changes.
		if n := len(hist); n > 0 && clock <= hist[n-1].Clock {
			continue
		}
		hist = append(hist, Observation{Clock: clock, X: m.XPos, Y: m.YPos})
		if len(hist) > t.historyLimit {
			hist = hist[len(hist)-t.historyLimit:]
		}
		t.histories[name] = hist
		t.timesSeen[name]++
	}
}

// DescribeRecent reports every unit whose most recent observation lies within
// the describe window of nowClock, most recently seen first.
func (t *Tracker) DescribeRecent(nowClock int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sightings := t.recentLocked(nowClock, t.describeWindow)

	lines := make([]string, 0, len(sightings))
	for _, s := range sightings {
		line := fmt.Sprintf("%s last seen %ds ago at (%d, %d)", s.Name, s.SecondsAgo, s.X, s.Y)
		if s.Direction != "" {
			line += fmt.Sprintf(", moving %s", s.Direction)
		}
		lines = append(lines, line)
	}
	return lines
}

// Enemies returns the structured sighting report for every tracked unit seen
// within the describe window of nowClock.
func (t *Tracker) Enemies(nowClock int) []types.EnemySighting {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recentLocked(nowClock, t.describeWindow)
}

// recentLocked collects sightings within window seconds of nowClock.
// Callers must hold at least a read lock.
func (t *Tracker) recentLocked(nowClock, window int) []types.EnemySighting {
	sightings := make([]types.EnemySighting, 0, len(t.histories))
	for name, hist := range t.histories {
		n := len(hist)
		if n == 0 {
			continue
		}
		last := hist[n-1]
		age := nowClock - last.Clock
		if age < 0 || age > window {
			continue
		}
		s := types.EnemySighting{
			Name:       name,
			X:          last.X,
			Y:          last.Y,
			LastSeen:   last.Clock,
			SecondsAgo: age,
			TimesSeen:  t.timesSeen[name],
		}
		if n >= 2 {
			s.Direction = direction(hist[n-2], last)
		}
		sightings = append(sightings, s)
	}
	sort.Slice(sightings, func(i, j int) bool {
		if sightings[i].LastSeen != sightings[j].LastSeen {
			return sightings[i].LastSeen > sightings[j].LastSeen
		}
		return sightings[i].Name < sightings[j].Name
	})
	return sightings
}

// Predict linearly extrapolates each recently seen unit's position to
// nowClock from its two most recent observations. Units with a zero or
// negative inter-sample clock delta are skipped.
func (t *Tracker) Predict(nowClock int) []Prediction {
	t.mu.RLock()
	defer t.mu.RUnlock()

	preds := make([]Prediction, 0, len(t.histories))
	for name, hist := range t.histories {
		n := len(hist)
		if n < 2 {
			continue
		}
		last, prev := hist[n-1], hist[n-2]
		age := nowClock - last.Clock
		if age < 0 || age > t.predictWindow {
			continue
		}
		dt := last.Clock - prev.Clock
		if dt <= 0 {
			continue
		}
		scale := float64(age) / float64(dt)
		preds = append(preds, Prediction{
			Name: name,
			X:    last.X + int(float64(last.X-prev.X)*scale),
			Y:    last.Y + int(float64(last.Y-prev.Y)*scale),
		})
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].Name < preds[j].Name })
	return preds
}

// direction classifies the displacement between two observations into one of
// the four cardinal directions, preferring the horizontal axis on ties.
func direction(from, to Observation) string {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return ""
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return "east"
		}
		return "west"
	}
	if dy > 0 {
		return "north"
	}
	return "south"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
