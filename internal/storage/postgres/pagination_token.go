package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

type PaginationTokenStore struct {
	db *sqlx.DB
}

func NewPaginationTokenStore(db *sqlx.DB) *PaginationTokenStore {
	return &PaginationTokenStore{db: db}
}

const paginationTokenColumns = `token, owner_id, webinar_id, query_params, expires_at, last_accessed_at`

func (s *PaginationTokenStore) Save(ctx context.Context, t domain.PaginationToken) error {
	query := `
		INSERT INTO pagination_tokens (token, owner_id, webinar_id, query_params, expires_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		t.Token,
		t.OwnerID,
		t.WebinarID,
		t.QueryParams,
		t.ExpiresAt,
		t.LastAccessedAt,
	)
	return err
}

func (s *PaginationTokenStore) Get(ctx context.Context, token string) (*domain.PaginationToken, error) {
	var t domain.PaginationToken
	query := `SELECT ` + paginationTokenColumns + ` FROM pagination_tokens WHERE token = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &t, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PaginationTokenStore) Touch(ctx context.Context, token string, at time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE pagination_tokens SET last_accessed_at = $2 WHERE token = $1`,
		token, at,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Take deletes the token and returns the deleted row in one statement, so
// two concurrent consumers can never both receive it.
func (s *PaginationTokenStore) Take(ctx context.Context, token string) (*domain.PaginationToken, error) {
	var t domain.PaginationToken
	query := `DELETE FROM pagination_tokens WHERE token = $1 RETURNING ` + paginationTokenColumns

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &t, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PaginationTokenStore) Delete(ctx context.Context, token string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM pagination_tokens WHERE token = $1`, token)
	return err
}

func (s *PaginationTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM pagination_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
