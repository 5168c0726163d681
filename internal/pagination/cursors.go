// Package pagination keeps provider page continuations server side behind
// opaque, short lived tokens.
package pagination

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 15 * time.Minute

const tokenBytes = 32

var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", domain.ErrPagination)
	ErrTokenNotFound  = fmt.Errorf("%w: unknown token", domain.ErrPagination)
	ErrTokenExpired   = fmt.Errorf("%w: expired token", domain.ErrPagination)
)

// TokenStore persists issued tokens. Get and Take return domain.ErrNotFound
// for unknown tokens. Take must read and delete in one atomic step.
type TokenStore interface {
	Save(ctx context.Context, token domain.PaginationToken) error
	Get(ctx context.Context, token string) (*domain.PaginationToken, error)
	Touch(ctx context.Context, token string, at time.Time) error
	Take(ctx context.Context, token string) (*domain.PaginationToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Cursors struct {
	store  TokenStore
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func New(store TokenStore, ttl time.Duration, logger *slog.Logger) *Cursors {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cursors{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With("component", "pagination_cursors"),
	}
}

// Issue stores params under a new random token owned by owner and,
// optionally, scoped to one webinar.
func (c *Cursors) Issue(ctx context.Context, params Params, owner, webinarID string) (string, error) {
	if _, err := params.Validate(); err != nil {
		return "", err
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal pagination params: %w", err)
	}

	now := c.now()
	record := domain.PaginationToken{
		Token:          token,
		OwnerID:        owner,
		QueryParams:    string(encoded),
		ExpiresAt:      now.Add(c.ttl),
		LastAccessedAt: now,
	}
	if webinarID != "" {
		record.WebinarID = &webinarID
	}

	if err := c.store.Save(ctx, record); err != nil {
		return "", fmt.Errorf("save pagination token: %w", err)
	}
	return token, nil
}

// Validate resolves a token to the params it was issued for without using it
// up. Validating the same token twice is safe.
func (c *Cursors) Validate(ctx context.Context, token string) (Params, error) {
	if err := checkFormat(token); err != nil {
		return Params{}, err
	}

	record, err := c.store.Get(ctx, token)
	if err != nil {
		return Params{}, lookupError(err)
	}

	now := c.now()
	if record.Expired(now) {
		if err := c.store.Delete(ctx, token); err != nil {
			c.logger.Warn("failed to delete expired token", "error", err)
		}
		return Params{}, ErrTokenExpired
	}

	if err := c.store.Touch(ctx, token, now); err != nil {
		return Params{}, fmt.Errorf("touch pagination token: %w", err)
	}

	return decode(record)
}

// Consume resolves a token and deletes it in one step, so each page's
// continuation is followed at most once.
func (c *Cursors) Consume(ctx context.Context, token string) (Params, error) {
	if err := checkFormat(token); err != nil {
		return Params{}, err
	}

	record, err := c.store.Take(ctx, token)
	if err != nil {
		return Params{}, lookupError(err)
	}
	if record.Expired(c.now()) {
		return Params{}, ErrTokenExpired
	}

	return decode(record)
}

// Sweep deletes every expired token. Safe to run concurrently with Issue and
// Validate, and from several processes at once.
func (c *Cursors) Sweep(ctx context.Context) (int64, error) {
	n, err := c.store.DeleteExpired(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("sweep pagination tokens: %w", err)
	}
	if n > 0 {
		metrics.PaginationTokensSwept.Add(float64(n))
		c.logger.Debug("swept expired pagination tokens", "count", n)
	}
	return n, nil
}

func checkFormat(token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != tokenBytes {
		return ErrTokenMalformed
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrTokenNotFound
	}
	return fmt.Errorf("load pagination token: %w", err)
}

func decode(record *domain.PaginationToken) (Params, error) {
	var params Params
	if err := json.Unmarshal([]byte(record.QueryParams), &params); err != nil {
		return Params{}, fmt.Errorf("%w: stored params unreadable: %v", ErrTokenMalformed, err)
	}
	if _, err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}
