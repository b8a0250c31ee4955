package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/keriv/lanecoach/internal/domain/dedupe"
	"github.com/keriv/lanecoach/internal/domain/model"
	"github.com/keriv/lanecoach/pkg/metrics"
)

// IngestDependencies defines the interface for snapshot ingestion.
type IngestDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s *model.Snapshot) bool
}

// IngestHandler accepts state pushes from the game client.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// HandlePostState handles POST /gsi requests. The game client fires these
// on its own schedule; the handler only validates, dedupes, and enqueues.
func (h *IngestHandler) HandlePostState(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_state"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	snap.IngestID = uuid.NewString()

	// Idempotency check - mark as seen first. Snapshots without a provider
	// timestamp cannot be keyed and pass through undeduplicated.
	key, keyed := dedupeKey(&snap)
	if keyed && h.deps.SeenAndRecord(r.Context(), key) {
		metrics.RecordSnapshotDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), &snap); !ok {
		// Rollback the "seen" status since enqueue failed
		if keyed {
			h.deps.Unrecord(r.Context(), key)
		}
		metrics.RecordSnapshotDropped()
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	metrics.RecordSnapshotIngested()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}

// dedupeKey derives the duplicate-delivery key from the provider timestamp
// and game clock. Both change every tick, so an identical pair means the
// client re-sent the same snapshot.
func dedupeKey(s *model.Snapshot) (string, bool) {
	if s.Provider == nil || s.Provider.Timestamp == nil {
		return "", false
	}
	clock, ok := s.Clock()
	if !ok {
		return "", false
	}
	return strconv.FormatInt(*s.Provider.Timestamp, 10) + "_" + strconv.Itoa(clock), true
}
