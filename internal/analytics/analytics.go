// Package analytics records best-effort per-conversation resolution counters.
//
// The recorder is notified after a successful resolution; it is not part of the
// resolver's contract and its failure must never affect the reply.
package analytics

import (
	"context"
	"log/slog"

	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/store"
)

// Recorder persists resolution counters through a Store. It implements the
// resolver's Observer interface.
type Recorder struct {
	store store.Store
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(st store.Store) *Recorder {
	return &Recorder{store: st}
}

// RecordResolution increments the counter for this conversation and source.
// Errors are logged and swallowed.
func (r *Recorder) RecordResolution(ctx context.Context, conversationID string, source models.ResponseSource) {
	if err := r.store.IncrementResolution(ctx, conversationID, source); err != nil {
		slog.Warn("Recorder.RecordResolution: counter write failed", "error", err, "conversation_id", conversationID, "source", source)
	}
}

// Stats returns the aggregated resolution counts per response source.
func (r *Recorder) Stats(ctx context.Context) (map[models.ResponseSource]int, error) {
	return r.store.GetResolutionStats(ctx)
}
