package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/keriv/lanecoach/internal/feedsim"
)

// Default configuration constants.
const (
	defaultTicks      = 150
	defaultClockStep  = 5
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:3000", "Base URL of the service")
		ticks    = flag.Int("ticks", defaultTicks, "Number of snapshots to send")
		step     = flag.Int("step", defaultClockStep, "In-game seconds per tick")
		interval = flag.Duration("interval", 0, "Real-time delay between ticks")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for simulator output (default: feedsim_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable per-tick logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		feedsim.ShowHelp()
		return
	}

	if err := feedsim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &feedsim.Config{
		BaseURL:      *baseURL,
		Ticks:        *ticks,
		ClockStep:    *step,
		TickInterval: *interval,
		Timeout:      *timeout,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := feedsim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
