// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/keriv/lanecoach/internal/domain/dedupe"
	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a snapshot for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, s *model.Snapshot) bool

	// Read operations expose the derived match state.
	Insights(ctx context.Context) []string
	GameTime(ctx context.Context) string
	Enemies(ctx context.Context) []types.EnemySighting
	Predictions(ctx context.Context) []types.Prediction
	EngagementStatus(ctx context.Context) types.Engagement
	PerformanceReport(ctx context.Context) []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	ingestHandler      *IngestHandler
	insightsHandler    *InsightsHandler
	enemiesHandler     *EnemiesHandler
	statusHandler      *StatusHandler
	performanceHandler *PerformanceHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		ingestHandler:      NewIngestHandler(deps),
		insightsHandler:    NewInsightsHandler(deps),
		enemiesHandler:     NewEnemiesHandler(deps),
		statusHandler:      NewStatusHandler(deps),
		performanceHandler: NewPerformanceHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/gsi", MetricsMiddleware(s.ingestHandler.HandlePostState, "gsi"))
	mux.HandleFunc("/insights", MetricsMiddleware(s.insightsHandler.HandleGetInsights, "insights"))
	mux.HandleFunc("/enemies", MetricsMiddleware(s.enemiesHandler.HandleGetEnemies, "enemies"))
	mux.HandleFunc("/status", MetricsMiddleware(s.statusHandler.HandleGetStatus, "status"))
	mux.HandleFunc("/performance", MetricsMiddleware(s.performanceHandler.HandleGetPerformance, "performance"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
