// Package types contains read shapes returned by the query surface.
package types

// EnemySighting is one tracked hostile unit as last observed.
type EnemySighting struct {
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	LastSeen   int    `json:"last_seen"`
	SecondsAgo int    `json:"seconds_ago"`
	Direction  string `json:"direction,omitempty"`
	TimesSeen  int    `json:"times_seen"`
}

// Prediction is one extrapolated future position.
type Prediction struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Nearby bool   `json:"nearby"`
}

// Engagement is the current fight-detection state.
type Engagement struct {
	Active   bool   `json:"active"`
	Since    int    `json:"since,omitempty"`
	Elapsed  int    `json:"elapsed,omitempty"`
	Advisory string `json:"advisory,omitempty"`
}
