package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"webinar_sync/internal/config"
	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
	"webinar_sync/internal/normalize"
)

// Phase names what a run is doing; it is stored as the run's current
// operation.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseListing      Phase = "listing_webinars"
	PhaseQueuing      Phase = "queuing"
	PhaseProcessing   Phase = "processing"
	PhaseFinalizing   Phase = "finalizing"
)

const enqueueChunk = 500

var (
	ErrRunActive   = errors.New("sync run is already active")
	ErrRunFinished = errors.New("sync run already completed")
)

type activeRun struct {
	stop chan struct{}
	once sync.Once
}

func (a *activeRun) requestStop() {
	a.once.Do(func() { close(a.stop) })
}

func (a *activeRun) stopped() bool {
	select {
	case <-a.stop:
		return true
	default:
		return false
	}
}

// Orchestrator drives a sync run through its phases:
// initializing -> listing_webinars -> queuing -> processing -> finalizing.
// One orchestrator may drive several runs, but each run is driven by at most
// one goroutine tree at a time.
type Orchestrator struct {
	tokens      TokenSource
	source      WebinarSource
	runs        SyncRunStore
	queue       QueueStore
	state       SyncStateStore
	txManager   TransactionManager
	writer      *Writer
	aggregator  *Aggregator
	reporter    Reporter
	concurrency int
	logger      *slog.Logger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	active map[string]*activeRun
	wg     sync.WaitGroup
}

func NewOrchestrator(
	tokens TokenSource,
	source WebinarSource,
	runs SyncRunStore,
	queue QueueStore,
	state SyncStateStore,
	txManager TransactionManager,
	writer *Writer,
	aggregator *Aggregator,
	reporter Reporter,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *Orchestrator {
	return &Orchestrator{
		tokens:      tokens,
		source:      source,
		runs:        runs,
		queue:       queue,
		state:       state,
		txManager:   txManager,
		writer:      writer,
		aggregator:  aggregator,
		reporter:    reporter,
		concurrency: max(cfg.Concurrency, 1),
		logger:      logger.With("component", "orchestrator"),
		now:         time.Now,
		newID:       uuid.NewString,
		active:      make(map[string]*activeRun),
	}
}

// Start runs a full sync for the connection and returns the finished run.
// A run that fails carries the reason in its error message and the error is
// returned alongside it.
func (o *Orchestrator) Start(ctx context.Context, connectionID string, window domain.SyncWindow) (*domain.SyncRun, error) {
	run, ar, err := o.begin(ctx, connectionID, window)
	if err != nil {
		return nil, err
	}
	defer o.release(run.ID)

	return o.execute(ctx, run, ar, true)
}

// Launch creates the run and drives it in the background. ctx bounds the
// background work, not just this call. The returned run is still running.
func (o *Orchestrator) Launch(ctx context.Context, connectionID string, window domain.SyncWindow) (*domain.SyncRun, error) {
	run, ar, err := o.begin(ctx, connectionID, window)
	if err != nil {
		return nil, err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.release(run.ID)
		_, _ = o.execute(ctx, run, ar, true)
	}()
	return run, nil
}

// Resume continues a stopped, failed or interrupted run with the items still
// pending in its queue. A run that failed before its queue was built is
// listed again.
func (o *Orchestrator) Resume(ctx context.Context, runID string) (*domain.SyncRun, error) {
	run, ar, fresh, err := o.prepareResume(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer o.release(run.ID)

	return o.execute(ctx, run, ar, fresh)
}

// LaunchResume is Resume in the background.
func (o *Orchestrator) LaunchResume(ctx context.Context, runID string) (*domain.SyncRun, error) {
	run, ar, fresh, err := o.prepareResume(ctx, runID)
	if err != nil {
		return nil, err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.release(run.ID)
		_, _ = o.execute(ctx, run, ar, fresh)
	}()
	return run, nil
}

// Stop asks a run to halt before its next item. Items already in flight
// finish; the rest stay queued and the run ends up cancelled. A run that is
// marked running but is not driven by this process is cancelled directly.
func (o *Orchestrator) Stop(ctx context.Context, runID string) error {
	o.mu.Lock()
	ar, ok := o.active[runID]
	o.mu.Unlock()

	if ok {
		ar.requestStop()
		o.logger.Info("stop requested", "run_id", runID)
		return nil
	}

	run, err := o.runs.Get(ctx, runID)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	if run.Status.Terminal() {
		return nil
	}
	if err := o.runs.SetStatus(ctx, runID, domain.RunStatusCancelled, nil); err != nil {
		return fmt.Errorf("cancel run: %w", err)
	}
	metrics.SyncRunsTotal.WithLabelValues(string(domain.RunStatusCancelled)).Inc()
	return nil
}

// Active reports whether this process is driving the run.
func (o *Orchestrator) Active(runID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.active[runID]
	return ok
}

// Wait blocks until every background run has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) begin(ctx context.Context, connectionID string, window domain.SyncWindow) (*domain.SyncRun, *activeRun, error) {
	if connectionID == "" {
		return nil, nil, domain.ValidationError("start sync", errors.New("connection id is required"))
	}
	if err := window.Validate(); err != nil {
		return nil, nil, domain.ValidationError("start sync", err)
	}

	run := &domain.SyncRun{
		ID:               o.newID(),
		ConnectionID:     connectionID,
		Status:           domain.RunStatusRunning,
		StartedAt:        o.now(),
		CurrentOperation: string(PhaseInitializing),
		Metadata:         domain.RunMetadata{Window: window, Mode: "full"},
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, nil, fmt.Errorf("create run: %w", err)
	}

	ar, _ := o.track(run.ID)
	return run, ar, nil
}

func (o *Orchestrator) prepareResume(ctx context.Context, runID string) (*domain.SyncRun, *activeRun, bool, error) {
	run, err := o.runs.Get(ctx, runID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("load run: %w", err)
	}
	if run.Status == domain.RunStatusCompleted {
		return nil, nil, false, ErrRunFinished
	}

	ar, ok := o.track(run.ID)
	if !ok {
		return nil, nil, false, ErrRunActive
	}

	fresh, err := o.reopen(ctx, run)
	if err != nil {
		o.release(run.ID)
		return nil, nil, false, err
	}
	return run, ar, fresh, nil
}

// reopen flips the run back to running and returns orphaned items to the
// queue. It reports whether the run never got as far as building its queue.
func (o *Orchestrator) reopen(ctx context.Context, run *domain.SyncRun) (bool, error) {
	if err := o.runs.MarkResumed(ctx, run.ID); err != nil {
		return false, fmt.Errorf("mark resumed: %w", err)
	}
	run.Status = domain.RunStatusRunning
	run.Metadata.Resumes++

	reset, err := o.queue.ResetProcessing(ctx, run.ID)
	if err != nil {
		return false, fmt.Errorf("reset processing items: %w", err)
	}
	counts, err := o.queue.Counts(ctx, run.ID)
	if err != nil {
		return false, fmt.Errorf("count queue: %w", err)
	}

	o.logger.Info("resuming sync run",
		"run_id", run.ID,
		"pending", counts.Pending,
		"completed", counts.Completed,
		"failed", counts.Failed,
		"reset", reset,
	)
	return counts.Total() == 0, nil
}

func (o *Orchestrator) track(runID string) (*activeRun, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.active[runID]; ok {
		return nil, false
	}
	ar := &activeRun{stop: make(chan struct{})}
	o.active[runID] = ar
	return ar, true
}

func (o *Orchestrator) release(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, runID)
}

func (o *Orchestrator) execute(ctx context.Context, run *domain.SyncRun, ar *activeRun, fresh bool) (*domain.SyncRun, error) {
	started := o.now()
	logger := o.logger.With("run_id", run.ID, "connection_id", run.ConnectionID)
	logger.Info("starting sync run",
		"window_start", run.Metadata.Window.Start,
		"window_end", run.Metadata.Window.End,
		"resume", run.Metadata.Resumes > 0,
	)

	err := o.prepare(ctx, run, fresh)
	if err == nil {
		err = o.process(ctx, run, ar)
	}
	return o.finish(ctx, run, ar, started, err)
}

// prepare covers everything before processing. Any error here fails the run.
func (o *Orchestrator) prepare(ctx context.Context, run *domain.SyncRun, fresh bool) error {
	o.phase(ctx, run.ID, PhaseInitializing, nil)
	if _, err := o.tokens.GetValidAccessToken(ctx, run.ConnectionID); err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}
	if !fresh {
		return nil
	}

	o.phase(ctx, run.ID, PhaseListing, map[string]any{
		"window_start": run.Metadata.Window.Start,
		"window_end":   run.Metadata.Window.End,
	})
	items, err := o.source.ListWebinars(ctx, run.ConnectionID, run.Metadata.Window)
	if err != nil {
		return fmt.Errorf("list webinars: %w", err)
	}

	o.phase(ctx, run.ID, PhaseQueuing, map[string]any{"webinars": len(items)})
	queued := 0
	err = o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for start := 0; start < len(items); start += enqueueChunk {
			n, err := o.queue.Enqueue(txCtx, run.ID, items[start:min(start+enqueueChunk, len(items))])
			if err != nil {
				return err
			}
			queued += n
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("enqueue webinars: %w", err)
	}

	o.logger.Info("queued webinars", "run_id", run.ID, "listed", len(items), "queued", queued)
	return nil
}

// process works through the pending items with bounded concurrency. Item
// failures are recorded and skipped; only a fatal error is returned.
func (o *Orchestrator) process(ctx context.Context, run *domain.SyncRun, ar *activeRun) error {
	counts, err := o.queue.Counts(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("count queue: %w", err)
	}
	if err := o.runs.UpdateCounts(ctx, run.ID, counts); err != nil {
		return fmt.Errorf("update run counts: %w", err)
	}

	total := counts.Total()
	var finished atomic.Int64
	finished.Store(int64(counts.Completed + counts.Failed))
	o.phase(ctx, run.ID, PhaseProcessing, map[string]any{"total": total, "pending": counts.Pending})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	var dispatchErr error
dispatch:
	for !ar.stopped() && gctx.Err() == nil {
		items, err := o.queue.NextPending(gctx, run.ID, o.concurrency)
		if err != nil {
			dispatchErr = fmt.Errorf("next pending: %w", err)
			break
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if ar.stopped() || gctx.Err() != nil {
				break dispatch
			}
			claimed, err := o.queue.MarkProcessing(gctx, item.ID)
			if err != nil {
				dispatchErr = fmt.Errorf("claim item %d: %w", item.ID, err)
				break dispatch
			}
			if !claimed {
				continue
			}

			g.Go(func() error {
				// Claimed before a stop landed; left for the reset below.
				if ar.stopped() {
					return nil
				}
				if err := o.processItem(gctx, run, item); err != nil {
					return err
				}
				if gctx.Err() != nil {
					return nil
				}
				n := finished.Add(1)
				o.reporter.Progress(context.WithoutCancel(gctx), run.ID,
					fmt.Sprintf("processed webinar %s", item.WebinarID),
					percentage(int(n), total),
					map[string]any{"webinar_id": item.WebinarID, "processed": n, "total": total},
				)
				return nil
			})
		}
	}

	werr := g.Wait()

	// Items claimed but not finished go back to pending for the next resume.
	if n, err := o.queue.ResetProcessing(context.WithoutCancel(ctx), run.ID); err != nil {
		o.logger.Error("failed to reset unfinished items", "run_id", run.ID, "error", err)
	} else if n > 0 {
		o.logger.Info("returned unfinished items to queue", "run_id", run.ID, "items", n)
	}

	if werr != nil {
		return werr
	}
	if dispatchErr != nil && ctx.Err() == nil {
		return dispatchErr
	}
	return ctx.Err()
}

// processItem syncs one queue item and records the outcome. It returns an
// error only when the whole run must stop.
func (o *Orchestrator) processItem(ctx context.Context, run *domain.SyncRun, item domain.QueueItem) error {
	book := context.WithoutCancel(ctx)
	logger := o.logger.With("run_id", run.ID, "webinar_id", item.WebinarID)

	err := o.syncItem(ctx, run, item, logger)
	switch {
	case err == nil:
		if err := o.queue.MarkCompleted(book, item.ID); err != nil {
			return fmt.Errorf("mark item %d completed: %w", item.ID, err)
		}
		if err := o.state.Record(book, run.ID, item.WebinarID, false); err != nil {
			logger.Warn("failed to record sync state", "error", err)
		}
		metrics.QueueItemsProcessed.WithLabelValues(string(item.Classification), "completed").Inc()
		return nil

	case ctx.Err() != nil:
		// Interrupted, not failed: the item goes back to pending.
		return nil

	case domain.Fatal(err):
		logger.Error("aborting run", "error", err)
		return err

	default:
		logger.Warn("webinar sync failed", "error", err)
		if err := o.queue.MarkFailed(book, item.ID, err.Error()); err != nil {
			return fmt.Errorf("mark item %d failed: %w", item.ID, err)
		}
		if err := o.state.Record(book, run.ID, item.WebinarID, true); err != nil {
			logger.Warn("failed to record sync state", "error", err)
		}
		metrics.QueueItemsProcessed.WithLabelValues(string(item.Classification), "failed").Inc()
		o.reporter.Error(book, run.ID, fmt.Sprintf("webinar %s failed", item.WebinarID), err)
		return nil
	}
}

func (o *Orchestrator) syncItem(ctx context.Context, run *domain.SyncRun, item domain.QueueItem, logger *slog.Logger) error {
	detail, err := o.source.FetchDetail(ctx, run.ConnectionID, item)
	if err != nil {
		return fmt.Errorf("fetch detail: %w", err)
	}
	if len(detail.Skipped) > 0 {
		logger.Info("synced without optional data", "skipped", detail.Skipped)
	}

	webinar, err := normalize.ToWebinar(run.ConnectionID, detail, o.now())
	if err != nil {
		return err
	}
	webinarID, err := o.writer.UpsertWebinar(ctx, &webinar)
	if err != nil {
		return err
	}

	batch, rejected := normalize.Children(webinarID, detail)
	for _, err := range rejected {
		logger.Warn("rejected invalid row", "error", err)
	}

	var batchErr *BatchError
	if err := o.writer.WriteChildren(ctx, batch); err != nil && !errors.As(err, &batchErr) {
		return fmt.Errorf("write children: %w", err)
	}

	if _, err := o.aggregator.Recompute(ctx, webinarID); err != nil {
		return fmt.Errorf("recompute metrics: %w", err)
	}

	if batchErr != nil {
		return domain.NewError(domain.ErrItem, "write children", batchErr)
	}
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, run *domain.SyncRun, ar *activeRun, started time.Time, runErr error) (*domain.SyncRun, error) {
	book := context.WithoutCancel(ctx)
	o.phase(book, run.ID, PhaseFinalizing, nil)

	counts, err := o.queue.Counts(book, run.ID)
	if err != nil {
		o.logger.Error("failed to count queue", "run_id", run.ID, "error", err)
	} else if err := o.runs.UpdateCounts(book, run.ID, counts); err != nil {
		o.logger.Error("failed to update run counts", "run_id", run.ID, "error", err)
	}

	status := domain.RunStatusCompleted
	var errMsg *string
	switch {
	case runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded):
		status = domain.RunStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	case runErr != nil:
		status = domain.RunStatusCancelled
		runErr = nil
	case ar.stopped() && (err != nil || counts.Pending > 0):
		status = domain.RunStatusCancelled
	}

	if err := o.runs.SetStatus(book, run.ID, status, errMsg); err != nil {
		o.logger.Error("failed to store run status", "run_id", run.ID, "status", status, "error", err)
	}

	stats := domain.SyncStats{
		RunID:     run.ID,
		Queued:    counts.Total(),
		Completed: counts.Completed,
		Failed:    counts.Failed,
		Skipped:   counts.Pending,
		Duration:  o.now().Sub(started),
	}
	metrics.SyncRunsTotal.WithLabelValues(string(status)).Inc()
	metrics.SyncRunDuration.Observe(stats.Duration.Seconds())

	details := map[string]any{
		"total":     stats.Queued,
		"completed": stats.Completed,
		"failed":    stats.Failed,
		"pending":   stats.Skipped,
		"duration":  stats.Duration.String(),
	}
	if status == domain.RunStatusFailed {
		o.reporter.Error(book, run.ID, "sync run failed", runErr)
	} else {
		pct := -1
		if status == domain.RunStatusCompleted {
			pct = 100
		}
		o.reporter.Progress(book, run.ID, "sync run "+string(status), pct, details)
	}

	o.logger.Info("sync run finished",
		"run_id", run.ID,
		"status", status,
		"completed", stats.Completed,
		"failed", stats.Failed,
		"pending", stats.Skipped,
		"duration", stats.Duration,
	)

	final, err := o.runs.Get(book, run.ID)
	if err != nil {
		o.logger.Error("failed to reload run", "run_id", run.ID, "error", err)
		run.Status = status
		run.ErrorMessage = errMsg
		final = run
	}
	return final, runErr
}

func (o *Orchestrator) phase(ctx context.Context, runID string, p Phase, details map[string]any) {
	o.reporter.Status(ctx, runID, string(p), details)
}

func percentage(done, total int) int {
	if total <= 0 {
		return 100
	}
	return min(done*100/total, 100)
}
