package api

import (
	"context"
	"net/http"

	"github.com/keriv/lanecoach/internal/domain/types"
)

// EnemiesDependencies defines the interface for enemy position queries.
type EnemiesDependencies interface {
	Enemies(ctx context.Context) []types.EnemySighting
	Predictions(ctx context.Context) []types.Prediction
}

// EnemiesHandler serves tracked enemy sightings and extrapolations.
type EnemiesHandler struct {
	deps EnemiesDependencies
}

// NewEnemiesHandler creates a new enemies handler.
func NewEnemiesHandler(deps EnemiesDependencies) *EnemiesHandler {
	return &EnemiesHandler{deps: deps}
}

type enemiesResponse struct {
	Sightings   []types.EnemySighting `json:"sightings"`
	Predictions []types.Prediction    `json:"predictions"`
}

// HandleGetEnemies handles GET /enemies requests.
func (h *EnemiesHandler) HandleGetEnemies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := enemiesResponse{
		Sightings:   h.deps.Enemies(r.Context()),
		Predictions: h.deps.Predictions(r.Context()),
	}
	if resp.Sightings == nil {
		resp.Sightings = []types.EnemySighting{}
	}
	if resp.Predictions == nil {
		resp.Predictions = []types.Prediction{}
	}
	writeJSON(w, http.StatusOK, resp)
}
