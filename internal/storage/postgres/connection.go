package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

type ConnectionStore struct {
	db *sqlx.DB
}

func NewConnectionStore(db *sqlx.DB) *ConnectionStore {
	return &ConnectionStore{db: db}
}

func (s *ConnectionStore) Get(ctx context.Context, connectionID string) (*domain.Connection, error) {
	var conn domain.Connection
	query := `
		SELECT id, owner_id, account_id, access_token_enc, refresh_token_enc, token_expires_at, scopes, updated_at
		FROM provider_connections
		WHERE id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &conn, query, connectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateTokens stores a refreshed token pair. Both values arrive encrypted.
func (s *ConnectionStore) UpdateTokens(ctx context.Context, connectionID, accessEnc, refreshEnc string, expiresAt time.Time) error {
	query := `
		UPDATE provider_connections
		SET access_token_enc = $2, refresh_token_enc = $3, token_expires_at = $4, updated_at = NOW()
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, connectionID, accessEnc, refreshEnc, expiresAt)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
