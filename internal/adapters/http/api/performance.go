package api

import (
	"context"
	"net/http"
)

// PerformanceDependencies defines the interface for farm-metric queries.
type PerformanceDependencies interface {
	PerformanceReport(ctx context.Context) []string
}

// PerformanceHandler serves the sampled performance report.
type PerformanceHandler struct {
	deps PerformanceDependencies
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(deps PerformanceDependencies) *PerformanceHandler {
	return &PerformanceHandler{deps: deps}
}

type performanceResponse struct {
	Report []string `json:"report"`
}

// HandleGetPerformance handles GET /performance requests.
func (h *PerformanceHandler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report := h.deps.PerformanceReport(r.Context())
	if report == nil {
		report = []string{}
	}
	writeJSON(w, http.StatusOK, performanceResponse{Report: report})
}
