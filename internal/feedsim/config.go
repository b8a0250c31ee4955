// Package feedsim replays a scripted match against a running service. It
// stands in for the game client during development: every tick it POSTs a
// snapshot the way the real integration would, then reads back the derived
// state from the query endpoints.
package feedsim

import "time"

// Config holds the simulation parameters.
type Config struct {
	// BaseURL is the root of the running service.
	BaseURL string

	// Ticks is how many snapshots to send.
	Ticks int

	// ClockStep is the in-game seconds advanced per tick.
	ClockStep int

	// TickInterval is the real-time delay between sends. Zero replays as
	// fast as the service accepts.
	TickInterval time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// LogFile receives a copy of the output when non-empty.
	LogFile string

	// Verbose enables per-tick logging.
	Verbose bool
}

// Stats accumulates the outcome of one run.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	TicksSent       int
	TicksAccepted   int
	TicksDuplicate  int
	TicksFailed     int
	InsightsFetched int
}
