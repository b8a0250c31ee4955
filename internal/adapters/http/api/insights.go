package api

import (
	"context"
	"net/http"
)

// InsightsDependencies defines the interface for the composed advice feed.
type InsightsDependencies interface {
	Insights(ctx context.Context) []string
	GameTime(ctx context.Context) string
}

// InsightsHandler serves the composed coaching lines.
type InsightsHandler struct {
	deps InsightsDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightsDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

type insightsResponse struct {
	GameTime string   `json:"game_time,omitempty"`
	Insights []string `json:"insights"`
}

// HandleGetInsights handles GET /insights requests.
func (h *InsightsHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	lines := h.deps.Insights(r.Context())
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, insightsResponse{
		GameTime: h.deps.GameTime(r.Context()),
		Insights: lines,
	})
}
