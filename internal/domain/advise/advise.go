// Package advise composes derived signals into an ordered advisory list.
// The compositor holds no mutable state; it reads the latest snapshot plus
// the outputs of the tracking, engagement, and sampling components.
package advise

import (
	"fmt"
	"math"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/track"
	"github.com/keriv/lanecoach/internal/domain/types"
)

// Default advisor configuration constants.
const (
	defaultProximityUnits = 2000 // predicted-position warning radius

	// Match phase boundaries in seconds.
	earlyPhaseEnd = 600
	midPhaseEnd   = 1500

	// Early-phase heuristics.
	earlyLastHitFloor = 4.0 // per minute
	earlyGoldFloor    = 600

	// Mid-phase heuristics.
	midGoldFloor = 2200
)

// Readiness score tier boundaries.
const (
	readinessMax      = 6
	readinessFightMin = 5
	readinessSkirmMin = 3
	readinessCautious = 2
)

// Input bundles everything the compositor reads. All fields are plain values
// produced by the other components for one instant.
type Input struct {
	Snapshot    *model.Snapshot
	Engagement  types.Engagement
	Tracking    []string
	Predictions []track.Prediction
	Metrics     []string
}

// Advisor renders advisory lines. It is safe for concurrent use.
type Advisor struct {
	proximityUnits float64
}

// Option applies a configuration option to the Advisor.
type Option func(*Advisor)

// WithProximityUnits sets the predicted-position warning radius.
func WithProximityUnits(units int) Option {
	return func(a *Advisor) {
		if units > 0 {
			a.proximityUnits = float64(units)
		}
	}
}

// New creates an Advisor with configuration options.
func New(opts ...Option) *Advisor {
	a := &Advisor{proximityUnits: defaultProximityUnits}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compose produces the ordered advisory list: engagement status, enemy
// tracking and predictions, performance metrics, then phase-specific advice.
func (a *Advisor) Compose(in Input) []string {
	lines := make([]string, 0, 8)

	if in.Engagement.Advisory != "" {
		lines = append(lines, in.Engagement.Advisory)
	}

	lines = append(lines, in.Tracking...)
	for _, p := range a.FlagPredictions(in.Snapshot, in.Predictions) {
		lines = append(lines, fmt.Sprintf("%s heading toward (%d, %d)", p.Name, p.X, p.Y))
		if p.Nearby {
			lines = append(lines, fmt.Sprintf("warning: %s may be closing on your position", p.Name))
		}
	}

	lines = append(lines, in.Metrics...)

	if clock, ok := in.Snapshot.Clock(); ok {
		lines = append(lines, a.phaseAdvice(clock, in.Snapshot)...)
	}
	return lines
}

// FlagPredictions marks each prediction that falls within the proximity
// radius of the local hero. With an unknown hero position nothing is flagged.
func (a *Advisor) FlagPredictions(s *model.Snapshot, preds []track.Prediction) []types.Prediction {
	hx, hy, known := s.HeroPosition()
	out := make([]types.Prediction, 0, len(preds))
	for _, p := range preds {
		fp := types.Prediction{Name: p.Name, X: p.X, Y: p.Y}
		if known && distance(hx, hy, p.X, p.Y) <= a.proximityUnits {
			fp.Nearby = true
		}
		out = append(out, fp)
	}
	return out
}

// phaseAdvice selects the fixed heuristic block for the current match phase.
func (a *Advisor) phaseAdvice(clock int, s *model.Snapshot) []string {
	switch {
	case clock < earlyPhaseEnd:
		return earlyAdvice(clock, s)
	case clock < midPhaseEnd:
		return midAdvice(s)
	default:
		return lateAdvice(s)
	}
}

func earlyAdvice(clock int, s *model.Snapshot) []string {
	var lines []string
	if lh, ok := playerLastHits(s); ok && clock >= 60 {
		rate := float64(lh) / (float64(clock) / 60.0)
		if rate < earlyLastHitFloor {
			lines = append(lines, "focus on last-hitting, your creep score is behind")
		}
	}
	if gold, ok := playerGold(s); ok && gold >= earlyGoldFloor {
		lines = append(lines, "you can afford boots and an observer ward, consider buying")
	}
	return lines
}

func midAdvice(s *model.Snapshot) []string {
	var lines []string
	if gold, ok := playerGold(s); ok && gold >= midGoldFloor {
		lines = append(lines, "gold is banked for a core item, look for a safe moment to shop")
	}
	if score, tier, ok := Readiness(s); ok {
		lines = append(lines, fmt.Sprintf("readiness %d/%d: %s", score, readinessMax, tier))
	}
	return lines
}

func lateAdvice(s *model.Snapshot) []string {
	var lines []string
	if gold, ok := playerGold(s); ok && s.Hero != nil && s.Hero.BuybackCost != nil {
		if gold >= *s.Hero.BuybackCost {
			lines = append(lines, "buyback is available")
		} else {
			lines = append(lines, fmt.Sprintf("save %d more gold for buyback", *s.Hero.BuybackCost-gold))
		}
	}
	if score, tier, ok := Readiness(s); ok {
		lines = append(lines, fmt.Sprintf("readiness %d/%d: %s", score, readinessMax, tier))
	}
	return lines
}

// Readiness computes the 0-6 readiness score from health and mana percent
// thresholds plus ability availability, and buckets it into an advisory
// tier. ok is false when neither health nor mana is known.
func Readiness(s *model.Snapshot) (score int, tier string, ok bool) {
	if s == nil || s.Hero == nil || (s.Hero.HealthPercent == nil && s.Hero.ManaPercent == nil) {
		return 0, "", false
	}

	if hp := s.Hero.HealthPercent; hp != nil {
		switch {
		case *hp >= 70:
			score += 2
		case *hp >= 40:
			score++
		}
	}
	if mp := s.Hero.ManaPercent; mp != nil {
		switch {
		case *mp >= 60:
			score += 2
		case *mp >= 30:
			score++
		}
	}

	if total, ready := abilityAvailability(s.Abilities); total > 0 {
		switch {
		case ready == total:
			score += 2
		case ready*2 >= total:
			score++
		}
	}

	switch {
	case score >= readinessFightMin:
		tier = "ready for a fight"
	case score >= readinessSkirmMin:
		tier = "fine for a skirmish"
	case score >= readinessCautious:
		tier = "play cautiously"
	default:
		tier = "avoid fights"
	}
	return score, tier, true
}

// abilityAvailability counts active abilities and how many can be cast now.
func abilityAvailability(abilities map[string]model.AbilityState) (total, ready int) {
	for _, ab := range abilities {
		if ab.Passive != nil && *ab.Passive {
			continue
		}
		if ab.CanCast == nil {
			continue
		}
		total++
		if *ab.CanCast {
			ready++
		}
	}
	return total, ready
}

func playerGold(s *model.Snapshot) (int, bool) {
	if s == nil || s.Player == nil || s.Player.Gold == nil {
		return 0, false
	}
	return *s.Player.Gold, true
}

func playerLastHits(s *model.Snapshot) (int, bool) {
	if s == nil || s.Player == nil || s.Player.LastHits == nil {
		return 0, false
	}
	return *s.Player.LastHits, true
}

func distance(x1, y1, x2, y2 int) float64 {
	dx, dy := float64(x1-x2), float64(y1-y2)
	return math.Sqrt(dx*dx + dy*dy)
}
