package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
	"webinar_sync/internal/normalize"
)

const DefaultBatchSize = 50

// RowError is one row the writer could not store.
type RowError struct {
	Kind       string
	ProviderID string
	Err        error
}

// BatchError reports rows that failed while the rest of their batch landed.
type BatchError struct {
	Rows []RowError
}

func (e *BatchError) Error() string {
	kinds := make(map[string]int)
	for _, r := range e.Rows {
		kinds[r.Kind]++
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range []string{"registrant", "participant", "poll", "qna"} {
		if n := kinds[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return fmt.Sprintf("upsert: %d rows failed (%s)", len(e.Rows), strings.Join(parts, ", "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Rows))
	for _, r := range e.Rows {
		errs = append(errs, r.Err)
	}
	return errs
}

// Writer stores normalized entities idempotently. Children are written in
// chunks, each in its own transaction; a chunk that fails is retried row by
// row so one bad row cannot keep the others out.
type Writer struct {
	webinars  WebinarStore
	children  ChildStore
	txManager TransactionManager
	batchSize int
	logger    *slog.Logger
}

func NewWriter(webinars WebinarStore, children ChildStore, txManager TransactionManager, batchSize int, logger *slog.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{
		webinars:  webinars,
		children:  children,
		txManager: txManager,
		batchSize: batchSize,
		logger:    logger.With("component", "writer"),
	}
}

func (w *Writer) UpsertWebinar(ctx context.Context, webinar *domain.Webinar) (int64, error) {
	id, err := w.webinars.Upsert(ctx, webinar)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("webinar", "error").Inc()
		return 0, fmt.Errorf("upsert webinar %s: %w", webinar.ProviderID, err)
	}
	metrics.UpsertRows.WithLabelValues("webinar", "ok").Inc()
	return id, nil
}

// WriteChildren upserts every row of b. It returns a *BatchError when some
// rows were rejected; the other rows are stored regardless. Any other error
// comes from the context.
func (w *Writer) WriteChildren(ctx context.Context, b normalize.Batch) error {
	var failed []RowError

	steps := []func() ([]RowError, error){
		func() ([]RowError, error) {
			return upsertBatch(ctx, w, "registrant", b.Registrants, w.children.UpsertRegistrants,
				func(r domain.Registrant) string { return r.ProviderID })
		},
		func() ([]RowError, error) {
			return upsertBatch(ctx, w, "participant", b.Participants, w.children.UpsertParticipants,
				func(p domain.Participant) string { return p.ProviderID })
		},
		func() ([]RowError, error) {
			return upsertBatch(ctx, w, "poll", b.Polls, w.children.UpsertPolls,
				func(p domain.Poll) string { return p.ProviderID })
		},
		func() ([]RowError, error) {
			return upsertBatch(ctx, w, "qna", b.QnA, w.children.UpsertQnA,
				func(q domain.QnA) string { return q.ProviderID })
		},
	}

	for _, step := range steps {
		rows, err := step()
		if err != nil {
			return err
		}
		failed = append(failed, rows...)
	}

	if len(failed) > 0 {
		return &BatchError{Rows: failed}
	}
	return nil
}

func upsertBatch[T any](
	ctx context.Context,
	w *Writer,
	kind string,
	rows []T,
	upsert func(context.Context, []T) error,
	key func(T) string,
) ([]RowError, error) {
	var failed []RowError

	for start := 0; start < len(rows); start += w.batchSize {
		chunk := rows[start:min(start+w.batchSize, len(rows))]

		err := w.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return upsert(txCtx, chunk)
		})
		if err == nil {
			metrics.UpsertRows.WithLabelValues(kind, "ok").Add(float64(len(chunk)))
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		w.logger.Warn("batch upsert failed, retrying row by row",
			"kind", kind,
			"rows", len(chunk),
			"error", err,
		)

		for _, row := range chunk {
			if err := upsert(ctx, []T{row}); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				metrics.UpsertRows.WithLabelValues(kind, "error").Inc()
				failed = append(failed, RowError{Kind: kind, ProviderID: key(row), Err: err})
				continue
			}
			metrics.UpsertRows.WithLabelValues(kind, "ok").Inc()
		}
	}
	return failed, nil
}
