package feedsim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/keriv/lanecoach/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "feedsim_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the feed simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Lanecoach Feed Simulator
========================

Replays a scripted match against a running lanecoach service, the way the
game client's state integration would.

Usage:
  go run cmd/feedsim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -ticks int
        Number of snapshots to send (default 150)
  -step int
        In-game seconds per tick (default 5)
  -interval duration
        Real-time delay between ticks (default 0, replay at full speed)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulator output (default: feedsim_TIMESTAMP.log)
  -verbose
        Enable per-tick logging
  -help
        Show this help message

Examples:
  # Replay a full scripted match as fast as possible
  go run cmd/feedsim/main.go

  # Replay in near real time
  go run cmd/feedsim/main.go -interval 1s -verbose

  # Point at a non-default port
  go run cmd/feedsim/main.go -url http://localhost:4100
`)
}
