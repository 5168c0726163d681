package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

type SyncRunStore struct {
	db *sqlx.DB
}

func NewSyncRunStore(db *sqlx.DB) *SyncRunStore {
	return &SyncRunStore{db: db}
}

const syncRunColumns = `id, connection_id, status, started_at, completed_at, total_items, processed_items,
	failed_items, current_operation, progress_percentage, error_message, metadata`

func (s *SyncRunStore) Create(ctx context.Context, run *domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, connection_id, status, started_at, current_operation, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		run.ID,
		run.ConnectionID,
		run.Status,
		run.StartedAt,
		run.CurrentOperation,
		run.Metadata,
	)
	return err
}

func (s *SyncRunStore) Get(ctx context.Context, runID string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &run, query, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// UpdateProgress records the current phase. An empty operation or a negative
// percentage keeps the stored value.
func (s *SyncRunStore) UpdateProgress(ctx context.Context, runID, operation string, percentage int) error {
	query := `
		UPDATE sync_runs
		SET current_operation = COALESCE(NULLIF($2::text, ''), current_operation),
			progress_percentage = CASE WHEN $3::int < 0 THEN progress_percentage ELSE LEAST($3::int, 100) END
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, runID, operation, percentage)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SyncRunStore) UpdateCounts(ctx context.Context, runID string, counts domain.QueueCounts) error {
	query := `
		UPDATE sync_runs
		SET total_items = $2, processed_items = $3, failed_items = $4
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		runID,
		counts.Total(),
		counts.Completed+counts.Failed,
		counts.Failed,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetStatus moves the run to status. Terminal statuses stamp completed_at;
// running clears it along with any earlier error.
func (s *SyncRunStore) SetStatus(ctx context.Context, runID string, status domain.RunStatus, errMsg *string) error {
	query := `
		UPDATE sync_runs
		SET status = $2,
			error_message = $3,
			completed_at = CASE WHEN $2::text = 'running' THEN NULL ELSE NOW() END
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, runID, status, errMsg)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MarkResumed puts a stopped or failed run back to running and counts the
// resume in its metadata.
func (s *SyncRunStore) MarkResumed(ctx context.Context, runID string) error {
	query := `
		UPDATE sync_runs
		SET status = 'running',
			error_message = NULL,
			completed_at = NULL,
			metadata = jsonb_set(metadata, '{resumes}', to_jsonb(COALESCE((metadata->>'resumes')::int, 0) + 1))
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, runID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
