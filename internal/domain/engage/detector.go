// Package engage detects discrete combat events by diffing consecutive
// snapshots and classifies bursts of them into an engagement state.
package engage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/types"
)

// Default classifier configuration constants.
const (
	defaultQuietSeconds    = 15 // no events for this long ends an engagement
	defaultWindowSeconds   = 30 // trailing window for the engagement trigger
	defaultEventThreshold  = 3  // events within the window that start an engagement
	defaultSkirmishWindow  = 60 // trailing window for the skirmish advisory
	defaultSkirmishMinimum = 2  // events within that window that suggest a skirmish
)

// Kind distinguishes event flavors.
type Kind string

// Event kinds.
const (
	KindDeath       Kind = "death"
	KindElimination Kind = "elimination"
)

// Event is one discrete combat event derived from a snapshot diff.
type Event struct {
	Clock   int
	Kind    Kind
	Subject string
	Victim  string
}

// Detector diffs consecutive snapshots for death and elimination events and
// runs the calm/engaged state machine over them.
type Detector struct {
	mu              sync.RWMutex
	quietSeconds    int
	windowSeconds   int
	eventThreshold  int
	skirmishWindow  int
	skirmishMinimum int

	events    []Event            // all events, clock-ordered
	bySubject map[string][]Event // per-subject views into the stream

	engaged      bool
	engagedSince int
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithQuietSeconds sets the no-event interval that ends an engagement.
func WithQuietSeconds(seconds int) Option {
	return func(d *Detector) {
		if seconds > 0 {
			d.quietSeconds = seconds
		}
	}
}

// WithWindow sets the trailing window and event count that start an engagement.
func WithWindow(seconds, threshold int) Option {
	return func(d *Detector) {
		if seconds > 0 && threshold > 0 {
			d.windowSeconds = seconds
			d.eventThreshold = threshold
		}
	}
}

// New creates a Detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		quietSeconds:    defaultQuietSeconds,
		windowSeconds:   defaultWindowSeconds,
		eventThreshold:  defaultEventThreshold,
		skirmishWindow:  defaultSkirmishWindow,
		skirmishMinimum: defaultSkirmishMinimum,
		bySubject:       make(map[string][]Event),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Update diffs current against previous and advances the state machine.
// The first snapshot of a session has no previous and emits nothing.
func (d *Detector) Update(current, previous *model.Snapshot) {
	if current == nil {
		return
	}
	clock, _ := current.Clock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if previous != nil {
		d.detectDeathLocked(clock, current, previous)
		d.detectEliminationsLocked(clock, current, previous)
	}
	d.transitionLocked(clock)
}

// detectDeathLocked emits a death event on an alive true->false transition.
func (d *Detector) detectDeathLocked(clock int, current, previous *model.Snapshot) {
	prevAlive, prevOK := previous.HeroAlive()
	curAlive, curOK := current.HeroAlive()
	if !prevOK || !curOK || !prevAlive || curAlive {
		return
	}
	subject := "hero"
	if current.Hero != nil && current.Hero.Name != nil {
		subject = model.FormatHeroName(*current.Hero.Name)
	}
	d.appendLocked(Event{Clock: clock, Kind: KindDeath, Subject: subject, Victim: subject})
}

// detectEliminationsLocked emits one elimination event per unit of counter
// increase. A counter that jumps by N yields N simultaneous events at the
// current clock.
func (d *Detector) detectEliminationsLocked(clock int, current, previous *model.Snapshot) {
	if current.Player == nil || current.Player.KillList == nil {
		return
	}
	var prevList map[string]int
	if previous.Player != nil {
		prevList = previous.Player.KillList
	}
	subject := "player"
	if current.Player.Name != nil {
		subject = *current.Player.Name
	}

	keys := make([]string, 0, len(current.Player.KillList))
	for k := range current.Player.KillList {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		delta := current.Player.KillList[key] - prevList[key]
		for i := 0; i < delta; i++ {
			d.appendLocked(Event{
				Clock:   clock,
				Kind:    KindElimination,
				Subject: subject,
				Victim:  victimLabel(key),
			})
		}
	}
}

func (d *Detector) appendLocked(e Event) {
	d.events = append(d.events, e)
	d.bySubject[e.Subject] = append(d.bySubject[e.Subject], e)
}

// transitionLocked advances the calm/engaged machine at the given clock.
func (d *Detector) transitionLocked(clock int) {
	last, ok := d.lastEventClockLocked()
	if !ok {
		return
	}
	if d.engaged {
		if clock-last >= d.quietSeconds {
			d.engaged = false
		}
		return
	}
	if clock-last < d.quietSeconds && d.countSinceLocked(clock-d.windowSeconds) >= d.eventThreshold {
		d.engaged = true
		d.engagedSince = clock
	}
}

func (d *Detector) lastEventClockLocked() (int, bool) {
	if len(d.events) == 0 {
		return 0, false
	}
	return d.events[len(d.events)-1].Clock, true
}

// countSinceLocked counts events with clock >= from.
func (d *Detector) countSinceLocked(from int) int {
	n := 0
	for i := len(d.events) - 1; i >= 0; i-- {
		if d.events[i].Clock < from {
			break
		}
		n++
	}
	return n
}

// StatusAt reports the engagement state as of nowClock.
func (d *Detector) StatusAt(nowClock int) types.Engagement {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.engaged {
		elapsed := nowClock - d.engagedSince
		if elapsed < 0 {
			elapsed = 0
		}
		return types.Engagement{
			Active:   true,
			Since:    d.engagedSince,
			Elapsed:  elapsed,
			Advisory: fmt.Sprintf("team fight in progress, started at %s (%ds ago)", model.FormatClock(d.engagedSince), elapsed),
		}
	}
	if d.countSinceLocked(nowClock-d.skirmishWindow) >= d.skirmishMinimum {
		return types.Engagement{Advisory: "skirmish may be developing, stay alert"}
	}
	return types.Engagement{}
}

// Engaged reports whether an engagement is currently active.
func (d *Detector) Engaged() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engaged
}

// EventCount returns the total number of emitted events.
func (d *Detector) EventCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.events)
}

// EventsFor returns a copy of the events attributed to subject.
func (d *Detector) EventsFor(subject string) []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Event, len(d.bySubject[subject]))
	copy(out, d.bySubject[subject])
	return out
}

// victimLabel derives a readable victim name from a kill-list identifier
// such as "victimid_4".
func victimLabel(key string) string {
	if id, ok := strings.CutPrefix(key, "victimid_"); ok {
		return "opponent " + id
	}
	return key
}
