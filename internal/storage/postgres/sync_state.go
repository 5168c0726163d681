package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

func (s *SyncStateStore) Get(ctx context.Context, runID string) (*domain.SyncState, error) {
	var state domain.SyncState
	query := `
		SELECT id, run_id, processed_count, failed_count, last_processed_id, updated_at
		FROM sync_state
		WHERE run_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, runID)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for runs that have not processed anything yet
		return &domain.SyncState{RunID: runID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Record counts one finished item against the run.
func (s *SyncStateStore) Record(ctx context.Context, runID, webinarID string, failed bool) error {
	processed, failures := 1, 0
	if failed {
		failures = 1
	}

	query := `
		INSERT INTO sync_state (run_id, processed_count, failed_count, last_processed_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			processed_count = sync_state.processed_count + EXCLUDED.processed_count,
			failed_count = sync_state.failed_count + EXCLUDED.failed_count,
			last_processed_id = EXCLUDED.last_processed_id,
			updated_at = EXCLUDED.updated_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, runID, processed, failures, webinarID)
	return err
}
