// Package config defines service configuration and loading. New(ctx) builds
// the defaults; Load(ctx) layers file and env on top. Analysis tunables
// (window sizes, history caps) live here as defaults and flow into the
// components as options.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address. The game client's state
	// integration config points at this port.
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory snapshot queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the duplicate-delivery guard.
	DedupeSize int `koanf:"dedupe_size"`

	// HistoryLimit caps retained position observations per enemy.
	HistoryLimit int `koanf:"history_limit"`

	// SeriesLimit caps retained samples per performance series.
	SeriesLimit int `koanf:"series_limit"`

	// DescribeWindowS is how long a sighting stays reportable, in seconds.
	DescribeWindowS int `koanf:"describe_window_s"`

	// PredictWindowS is how long a sighting stays extrapolatable, in seconds.
	PredictWindowS int `koanf:"predict_window_s"`

	// EngageQuietS is the no-event interval that ends an engagement.
	EngageQuietS int `koanf:"engage_quiet_s"`

	// EngageWindowS and EngageThreshold define the engagement trigger:
	// at least EngageThreshold events within the trailing EngageWindowS.
	EngageWindowS   int `koanf:"engage_window_s"`
	EngageThreshold int `koanf:"engage_threshold"`

	// ProximityUnits is the predicted-position warning radius.
	ProximityUnits int `koanf:"proximity_units"`

	// DumpDir enables periodic debug state dumps when non-empty.
	DumpDir string `koanf:"dump_dir"`

	// DumpIntervalS is the dump cadence in seconds.
	DumpIntervalS int `koanf:"dump_interval_s"`
}

// New creates a Config holding the defaults. Context is accepted first per
// the project-wide convention and reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":3000",
		QueueSize:       4096,
		DedupeSize:      50_000,
		HistoryLimit:    100,
		SeriesLimit:     20,
		DescribeWindowS: 60,
		PredictWindowS:  30,
		EngageQuietS:    15,
		EngageWindowS:   30,
		EngageThreshold: 3,
		ProximityUnits:  2000,
		DumpDir:         "",
		DumpIntervalS:   300,
	}
}
