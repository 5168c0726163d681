package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

// QueueStore persists the per-run work queue. Items move
// pending -> processing -> completed|failed and are never requeued once
// they reach a terminal status.
type QueueStore struct {
	db *sqlx.DB
}

func NewQueueStore(db *sqlx.DB) *QueueStore {
	return &QueueStore{db: db}
}

const queueColumns = `id, run_id, webinar_id, webinar_uuid, topic, start_time, classification, status, priority, retry_count, error_message`

// Enqueue inserts items for runID. Items already queued for the run are left
// untouched; the number of new rows is returned.
func (s *QueueStore) Enqueue(ctx context.Context, runID string, items []domain.QueueItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	const cols = 7
	var sb strings.Builder
	sb.WriteString("INSERT INTO sync_queue (run_id, webinar_id, webinar_uuid, topic, start_time, classification, priority) VALUES ")
	args := make([]any, 0, len(items)*cols)

	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePlaceholders(&sb, i*cols, cols)
		args = append(args, runID, item.WebinarID, item.WebinarUUID, item.Topic, item.StartTime, item.Classification, item.Priority)
	}
	sb.WriteString(" ON CONFLICT (run_id, webinar_id) DO NOTHING")

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// NextPending returns up to limit pending items, highest priority first.
func (s *QueueStore) NextPending(ctx context.Context, runID string, limit int) ([]domain.QueueItem, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM sync_queue
		WHERE run_id = $1 AND status = 'pending'
		ORDER BY priority DESC, id
		LIMIT $2`

	var items []domain.QueueItem
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &items, query, runID, limit)
	return items, err
}

// MarkProcessing claims a pending item. It reports false when the item was
// no longer pending, e.g. claimed by another worker.
func (s *QueueStore) MarkProcessing(ctx context.Context, itemID int64) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE sync_queue SET status = 'processing', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		itemID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *QueueStore) MarkCompleted(ctx context.Context, itemID int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE sync_queue SET status = 'completed', error_message = NULL, updated_at = NOW() WHERE id = $1`,
		itemID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *QueueStore) MarkFailed(ctx context.Context, itemID int64, reason string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE sync_queue
		SET status = 'failed', retry_count = retry_count + 1, error_message = $2, updated_at = NOW()
		WHERE id = $1`,
		itemID, reason,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ResetProcessing returns items a crashed process left in processing to
// pending.
func (s *QueueStore) ResetProcessing(ctx context.Context, runID string) (int, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE sync_queue SET status = 'pending', updated_at = NOW() WHERE run_id = $1 AND status = 'processing'`,
		runID,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *QueueStore) Counts(ctx context.Context, runID string) (domain.QueueCounts, error) {
	var c domain.QueueCounts
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')    AS pending,
			COUNT(*) FILTER (WHERE status = 'processing') AS processing,
			COUNT(*) FILTER (WHERE status = 'completed')  AS completed,
			COUNT(*) FILTER (WHERE status = 'failed')     AS failed
		FROM sync_queue
		WHERE run_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &c, query, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QueueCounts{}, nil
	}
	return c, err
}

// writePlaceholders appends "($n, ..., $n+count-1)" starting at offset+1.
func writePlaceholders(sb *strings.Builder, offset, count int) {
	sb.WriteString("(")
	for j := 0; j < count; j++ {
		if j > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("$")
		sb.WriteString(strconv.Itoa(offset + j + 1))
	}
	sb.WriteString(")")
}
