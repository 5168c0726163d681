package progress

import (
	"context"
	"log/slog"
	"time"

	"webinar_sync/internal/domain"
)

// RunStore persists the latest phase and percentage of a run.
type RunStore interface {
	UpdateProgress(ctx context.Context, runID, operation string, percentage int) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ProgressEvent) error
}

// Reporter turns orchestrator notifications into progress events. Every event
// is logged and published; status and progress events are also stored on the
// run. Nothing here fails the run.
type Reporter struct {
	runs      RunStore
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewReporter builds a reporter. publisher may be nil when no broker is
// configured.
func NewReporter(runs RunStore, publisher Publisher, logger *slog.Logger) *Reporter {
	return &Reporter{
		runs:      runs,
		publisher: publisher,
		logger:    logger.With("component", "progress"),
		now:       time.Now,
	}
}

// Status records a phase change. The message is the phase name.
func (r *Reporter) Status(ctx context.Context, runID, message string, details map[string]any) {
	r.logger.Info("sync status", "run_id", runID, "phase", message)
	r.persist(ctx, runID, message, -1)
	r.publish(ctx, domain.ProgressEvent{
		Type:       domain.EventStatus,
		RunID:      runID,
		Message:    message,
		Details:    details,
		Percentage: -1,
	})
}

// Progress records advancement within the current phase. A negative
// percentage leaves the stored one as is.
func (r *Reporter) Progress(ctx context.Context, runID, message string, percentage int, details map[string]any) {
	r.logger.Debug("sync progress", "run_id", runID, "message", message, "percentage", percentage)
	r.persist(ctx, runID, "", percentage)
	r.publish(ctx, domain.ProgressEvent{
		Type:       domain.EventProgress,
		RunID:      runID,
		Message:    message,
		Details:    details,
		Percentage: percentage,
	})
}

func (r *Reporter) Error(ctx context.Context, runID, message string, err error) {
	var details map[string]any
	if err != nil {
		details = map[string]any{"error": err.Error()}
	}
	r.logger.Warn("sync error", "run_id", runID, "message", message, "error", err)
	r.publish(ctx, domain.ProgressEvent{
		Type:       domain.EventError,
		RunID:      runID,
		Message:    message,
		Details:    details,
		Percentage: -1,
	})
}

func (r *Reporter) persist(ctx context.Context, runID, operation string, percentage int) {
	if err := r.runs.UpdateProgress(ctx, runID, operation, percentage); err != nil {
		r.logger.Error("failed to store progress", "run_id", runID, "error", err)
	}
}

func (r *Reporter) publish(ctx context.Context, event domain.ProgressEvent) {
	if r.publisher == nil {
		return
	}
	event.Timestamp = r.now().UTC()
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish progress event",
			"run_id", event.RunID,
			"type", event.Type,
			"error", err,
		)
	}
}
