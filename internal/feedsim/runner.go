package feedsim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/pkg/logger"
)

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type insightsResponse struct {
	Insights []string `json:"insights"`
}

// Run replays the scripted match and reports what the service derived.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting feed simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("ticks", config.Ticks),
		logger.Int("clockStep", config.ClockStep),
		logger.String("tickInterval", config.TickInterval.String()),
	)

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	script := NewScript(config.Ticks, config.ClockStep)
	if err := replayScript(ctx, client, config, script, stats); err != nil {
		return fmt.Errorf("feed replay failed: %w", err)
	}

	if err := showDerivedState(ctx, client, config, stats); err != nil {
		return fmt.Errorf("state readback failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// replayScript sends each tick in order. Order matters: the pipeline derives
// deltas from consecutive snapshots, so ticks are never submitted in parallel.
func replayScript(ctx context.Context, client *HTTPClient, config *Config, script []*model.Snapshot, stats *Stats) error {
	url := config.BaseURL + "/gsi"

	for i, snap := range script {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during replay: %w", ctx.Err())
		default:
		}

		stats.TicksSent++
		switch submitTick(ctx, client, url, snap) {
		case "accepted":
			stats.TicksAccepted++
		case "duplicate":
			stats.TicksDuplicate++
		default:
			stats.TicksFailed++
		}

		if config.Verbose {
			clock, _ := snap.Clock()
			logger.Get().Info(ctx, "tick submitted",
				logger.Int("tick", i),
				logger.String("clock", model.FormatClock(clock)),
			)
		}

		if config.TickInterval > 0 && i < len(script)-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during replay: %w", ctx.Err())
			case <-time.After(config.TickInterval):
			}
		}
	}

	logger.Get().Info(ctx, "feed replay completed",
		logger.Int("accepted", stats.TicksAccepted),
		logger.Int("duplicate", stats.TicksDuplicate),
		logger.Int("failed", stats.TicksFailed),
	)
	return nil
}

func submitTick(ctx context.Context, client *HTTPClient, url string, snap *model.Snapshot) string {
	resp, err := client.Post(ctx, url, snap)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return "accepted"
	case http.StatusOK:
		var ack ackResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// showDerivedState reads the query surface back and logs what the coach
// would say at the end of the replay.
func showDerivedState(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	// The pipeline drains asynchronously; give it a moment.
	time.Sleep(processingDelay)

	var insights insightsResponse
	if err := getJSON(ctx, client, config.BaseURL+"/insights", &insights); err != nil {
		return err
	}
	stats.InsightsFetched = len(insights.Insights)
	for _, line := range insights.Insights {
		logger.Get().Info(ctx, "insight", logger.String("line", line))
	}

	var status map[string]any
	if err := getJSON(ctx, client, config.BaseURL+"/status", &status); err != nil {
		return err
	}
	logger.Get().Info(ctx, "engagement status", logger.Any("status", status))

	var svcStats map[string]any
	if err := getJSON(ctx, client, config.BaseURL+"/stats", &svcStats); err != nil {
		return err
	}
	logger.Get().Info(ctx, "service stats", logger.Any("stats", svcStats))

	return nil
}

func getJSON(ctx context.Context, client *HTTPClient, url string, v any) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", url, err)
	}
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var ticksPerSecond float64
	if stats.Duration > 0 {
		ticksPerSecond = float64(stats.TicksSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("ticksSent", stats.TicksSent),
		logger.Int("ticksAccepted", stats.TicksAccepted),
		logger.Int("ticksDuplicate", stats.TicksDuplicate),
		logger.Int("ticksFailed", stats.TicksFailed),
		logger.Int("insightsFetched", stats.InsightsFetched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("ticksPerSecond", ticksPerSecond),
	)
}
