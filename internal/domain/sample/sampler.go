// Package sample maintains bounded numeric time series for the local player
// and compares current values against rolling averages and phase benchmarks.
package sample

import (
	"fmt"
	"sync"

	"github.com/keriv/lanecoach/internal/domain/model"
)

// Default sampler configuration constants.
const (
	defaultSeriesLimit = 20 // retained samples per series

	// Trend thresholds relative to the rolling mean.
	significantDelta = 100
	mildDelta        = 20

	// earlyPhaseEnd is the benchmark phase boundary in seconds.
	earlyPhaseEnd = 600
)

// benchmark maps a minimum last-hit rate per minute to a verdict.
type benchmark struct {
	minRate float64
	verdict string
}

// Last-hit pacing benchmarks. The early table applies before the ten minute
// mark, the late table after it.
var (
	earlyBenchmarks = []benchmark{
		{6.0, "excellent farming pace"},
		{4.0, "solid farming pace"},
		{2.5, "farming pace is behind"},
		{0, "farming pace is well behind"},
	}
	lateBenchmarks = []benchmark{
		{8.0, "excellent farming pace"},
		{5.5, "solid farming pace"},
		{3.5, "farming pace is behind"},
		{0, "farming pace is well behind"},
	}
)

// point is one (game-clock, value) sample.
type point struct {
	clock int
	value int
}

// series is a bounded, insertion-ordered sample sequence.
type series struct {
	label  string
	points []point
}

func (s *series) push(clock, value, limit int) {
	s.points = append(s.points, point{clock: clock, value: value})
	if len(s.points) > limit {
		s.points = s.points[len(s.points)-limit:]
	}
}

func (s *series) latest() int { return s.points[len(s.points)-1].value }

func (s *series) mean() float64 {
	sum := 0
	for _, p := range s.points {
		sum += p.value
	}
	return float64(sum) / float64(len(s.points))
}

// Sampler tracks gold rate, experience rate, and last-hit series for the
// locally tracked player.
type Sampler struct {
	mu          sync.RWMutex
	seriesLimit int
	lastClock   int

	gold     series
	xp       series
	lastHits series
}

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSeriesLimit caps the number of retained samples per series.
func WithSeriesLimit(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.seriesLimit = n
		}
	}
}

// New creates a Sampler with configuration options.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		seriesLimit: defaultSeriesLimit,
		lastClock:   -1,
		gold:        series{label: "GPM"},
		xp:          series{label: "XPM"},
		lastHits:    series{label: "Last hits"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update appends the player's current rates and counts to their series.
// Absent fields are skipped; a snapshot whose game clock does not advance
// past the last processed clock is ignored.
func (s *Sampler) Update(current *model.Snapshot) {
	clock, ok := current.Clock()
	if !ok || current.Player == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if clock <= s.lastClock {
		return
	}
	s.lastClock = clock

	if current.Player.GPM != nil {
		s.gold.push(clock, *current.Player.GPM, s.seriesLimit)
	}
	if current.Player.XPM != nil {
		s.xp.push(clock, *current.Player.XPM, s.seriesLimit)
	}
	if current.Player.LastHits != nil {
		s.lastHits.push(clock, *current.Player.LastHits, s.seriesLimit)
	}
}

// Report renders one line per series holding at least two samples: latest
// value, rolling mean, and trend. The last-hit line additionally carries a
// per-minute rate classified against the phase benchmarks.
func (s *Sampler) Report(nowClock int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]string, 0, 3)
	for _, sr := range []*series{&s.gold, &s.xp} {
		if len(sr.points) < 2 {
			continue
		}
		mean := sr.mean()
		lines = append(lines, fmt.Sprintf("%s: %d (avg %.0f, %s)", sr.label, sr.latest(), mean, trend(float64(sr.latest()), mean)))
	}

	if len(s.lastHits.points) >= 2 {
		mean := s.lastHits.mean()
		latest := s.lastHits.latest()
		line := fmt.Sprintf("%s: %d (avg %.0f, %s)", s.lastHits.label, latest, mean, trend(float64(latest), mean))
		if nowClock >= 60 {
			rate := float64(latest) / (float64(nowClock) / 60.0)
			line += fmt.Sprintf(", %.1f/min - %s", rate, classifyRate(rate, nowClock))
		}
		lines = append(lines, line)
	}
	return lines
}

// Len returns the total number of retained samples across all series.
func (s *Sampler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gold.points) + len(s.xp.points) + len(s.lastHits.points)
}

// LastHitsPerMinute returns the current last-hit rate, or false before the
// first minute or when no samples exist.
func (s *Sampler) LastHitsPerMinute(nowClock int) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if nowClock < 60 || len(s.lastHits.points) == 0 {
		return 0, false
	}
	return float64(s.lastHits.latest()) / (float64(nowClock) / 60.0), true
}

// trend classifies a value against the rolling mean using fixed absolute
// thresholds.
func trend(latest, mean float64) string {
	switch diff := latest - mean; {
	case diff >= significantDelta:
		return "trending up significantly"
	case diff >= mildDelta:
		return "trending up"
	case diff <= -significantDelta:
		return "trending down significantly"
	case diff <= -mildDelta:
		return "trending down"
	default:
		return "steady"
	}
}

// classifyRate picks a verdict from the phase benchmark table.
func classifyRate(rate float64, nowClock int) string {
	table := earlyBenchmarks
	if nowClock >= earlyPhaseEnd {
		table = lateBenchmarks
	}
	for _, b := range table {
		if rate >= b.minRate {
			return b.verdict
		}
	}
	return table[len(table)-1].verdict
}
