package api

import (
	"context"
	"net/http"

	"github.com/keriv/lanecoach/internal/domain/types"
)

// StatusDependencies defines the interface for fight-state queries.
type StatusDependencies interface {
	EngagementStatus(ctx context.Context) types.Engagement
}

// StatusHandler serves the engagement state.
type StatusHandler struct {
	deps StatusDependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps StatusDependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleGetStatus handles GET /status requests.
func (h *StatusHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.EngagementStatus(r.Context()))
}
