// Package credential hands out valid provider access tokens, refreshing and
// re-encrypting them when they are about to expire.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
)

// RefreshWindow is how close to expiry a token may get before it is refreshed.
const RefreshWindow = 5 * time.Minute

// defaultTokenLifetime applies when the token endpoint omits expires_in.
const defaultTokenLifetime = time.Hour

type ConnectionStore interface {
	Get(ctx context.Context, connectionID string) (*domain.Connection, error)
	UpdateTokens(ctx context.Context, connectionID, accessEnc, refreshEnc string, expiresAt time.Time) error
}

type Config struct {
	OAuthURL     string
	ClientID     string
	ClientSecret string
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

type Vault struct {
	store      ConnectionStore
	enc        *Encryptor
	oauth      *oauth2.Config
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	group singleflight.Group

	// gen counts invalidations per connection and refreshed is the last
	// generation a refresh completed for. A load whose generation is ahead
	// of refreshed must refresh, and a load overtaken by Invalidate does not
	// cache what it read.
	mu        sync.Mutex
	cache     map[string]cachedToken
	gen       map[string]uint64
	refreshed map[string]uint64
}

func NewVault(cfg Config, store ConnectionStore, enc *Encryptor, httpClient *http.Client, logger *slog.Logger) *Vault {
	return &Vault{
		store: store,
		enc:   enc,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimRight(cfg.OAuthURL, "/") + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
		logger:     logger.With("component", "credential_vault"),
		now:        time.Now,
		cache:      make(map[string]cachedToken),
		gen:        make(map[string]uint64),
		refreshed:  make(map[string]uint64),
	}
}

// GetValidAccessToken returns a plaintext access token that stays valid for
// at least RefreshWindow. Concurrent callers for one connection share a single
// load or refresh. Failures are domain.ErrAuth and must not be retried.
func (v *Vault) GetValidAccessToken(ctx context.Context, connectionID string) (string, error) {
	v.mu.Lock()
	cached, ok := v.cache[connectionID]
	gen := v.gen[connectionID]
	v.mu.Unlock()
	if ok && v.fresh(cached.expiresAt) {
		return cached.token, nil
	}

	// Callers after an Invalidate never join a load started before it. The
	// shared load must not die with whichever caller happened to start it.
	key := connectionID + "#" + strconv.FormatUint(gen, 10)
	ch := v.group.DoChan(key, func() (any, error) {
		return v.load(context.WithoutCancel(ctx), connectionID, gen)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate forces the next call for the connection to refresh, used after
// the provider rejected a token that looked valid locally. Callers that
// invalidate while a forced refresh is still pending share that refresh.
func (v *Vault) Invalidate(connectionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.cache, connectionID)
	if v.gen[connectionID] == v.refreshed[connectionID] {
		v.gen[connectionID]++
	}
}

func (v *Vault) fresh(expiresAt time.Time) bool {
	return v.now().Add(RefreshWindow).Before(expiresAt)
}

func (v *Vault) load(ctx context.Context, connectionID string, gen uint64) (string, error) {
	conn, err := v.store.Get(ctx, connectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.AuthError("load connection", fmt.Errorf("connection %s not found", connectionID))
		}
		return "", fmt.Errorf("load connection: %w", err)
	}

	v.mu.Lock()
	forced := gen > v.refreshed[connectionID]
	v.mu.Unlock()

	access, err := v.enc.Decrypt(conn.AccessTokenEncrypted)
	if err != nil {
		return "", domain.AuthError("decrypt access token", err)
	}
	if access != "" && !forced && v.fresh(conn.TokenExpiresAt) {
		v.remember(connectionID, gen, access, conn.TokenExpiresAt)
		return access, nil
	}

	refreshToken, err := v.enc.Decrypt(conn.RefreshTokenEncrypted)
	if err != nil {
		return "", domain.AuthError("decrypt refresh token", err)
	}
	if refreshToken == "" {
		return "", domain.AuthError("refresh token", errors.New("connection has no refresh token"))
	}

	tok, err := v.exchange(ctx, refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return "", domain.AuthError("refresh token", err)
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = v.now().Add(defaultTokenLifetime)
	}

	accessEnc, err := v.enc.Encrypt(tok.AccessToken)
	if err != nil {
		return "", domain.AuthError("encrypt access token", err)
	}
	refreshEnc, err := v.enc.Encrypt(tok.RefreshToken)
	if err != nil {
		return "", domain.AuthError("encrypt refresh token", err)
	}

	if err := v.store.UpdateTokens(ctx, connectionID, accessEnc, refreshEnc, expiresAt); err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return "", domain.AuthError("persist refreshed tokens", err)
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	v.logger.Info("refreshed access token", "connection_id", connectionID, "expires_at", expiresAt)

	v.mu.Lock()
	if gen > v.refreshed[connectionID] {
		v.refreshed[connectionID] = gen
	}
	v.mu.Unlock()
	v.remember(connectionID, gen, tok.AccessToken, expiresAt)

	return tok.AccessToken, nil
}

// exchange performs grant_type=refresh_token against /oauth/token with the
// client credentials in a basic auth header. The provider rotates refresh
// tokens; when it does not send one the old token is kept.
func (v *Vault) exchange(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if v.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	}

	src := v.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Unix(1, 0),
	})
	tok, err := src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

// remember caches token unless the connection was invalidated after the load
// for gen started.
func (v *Vault) remember(connectionID string, gen uint64, token string, expiresAt time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen[connectionID] != gen {
		return
	}
	v.cache[connectionID] = cachedToken{token: token, expiresAt: expiresAt}
}
