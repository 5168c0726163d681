// Package zoom reads webinars and their child data from the provider REST API.
package zoom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
	"webinar_sync/internal/pagination"
	"webinar_sync/internal/ratelimit"
)

const maxBodyBytes = 16 << 20

// TokenProvider hands out access tokens for a connection.
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context, connectionID string) (string, error)
	Invalidate(connectionID string)
}

type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

type Config struct {
	BaseURL            string
	PageSize           int
	Timeout            time.Duration
	RegistrantStatuses []string
	Breaker            BreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	statuses   []string
	tokens     TokenProvider
	limiter    *ratelimit.Limiter
	cursors    *pagination.Cursors
	breaker    *gobreaker.CircuitBreaker[[]byte]
	validate   *validator.Validate
	logger     *slog.Logger
	now        func() time.Time
}

func New(cfg Config, tokens TokenProvider, limiter *ratelimit.Limiter, cursors *pagination.Cursors, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 300 {
		pageSize = 300
	}
	statuses := cfg.RegistrantStatuses
	if len(statuses) == 0 {
		statuses = []string{"approved"}
	}
	failures := cfg.Breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	logger = logger.With("source", "zoom")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: pageSize,
		statuses: statuses,
		tokens:   tokens,
		limiter:  limiter,
		cursors:  cursors,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "zoom",
			Timeout: cfg.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// Only an unreachable or failing provider trips the breaker.
			// 4xx answers, 429 included, mean it is up.
			IsSuccessful: func(err error) bool {
				return err == nil || !errors.Is(err, domain.ErrTransport)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.CircuitBreakerState.Set(float64(to))
				logger.Warn("provider circuit breaker changed state", "from", from.String(), "to", to.String())
			},
		}),
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// endpoint names a provider call for metrics and errors, with the scope it
// needs so a rejection can tell the operator what to grant.
type endpoint struct {
	name  string
	scope string
}

var (
	epListWebinars       = endpoint{"list_webinars", "webinar:read"}
	epGetWebinar         = endpoint{"get_webinar", "webinar:read"}
	epGetPastWebinar     = endpoint{"get_past_webinar", "webinar:read"}
	epRegistrants        = endpoint{"list_registrants", "webinar:read"}
	epReportParticipants = endpoint{"report_participants", "report:read:admin"}
	epPastParticipants   = endpoint{"past_participants", "webinar:read"}
	epPolls              = endpoint{"list_polls", "webinar:read"}
	epPastPolls          = endpoint{"past_polls", "webinar:read"}
	epQA                 = endpoint{"past_qa", "webinar:read"}
	epTrackingSources    = endpoint{"tracking_sources", "webinar:read"}
)

// APIError is a non-2xx provider answer. It unwraps to the error kind the
// status maps to.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

var errUnauthorized = errors.New("access token rejected")

var scopeList = regexp.MustCompile(`scopes?:?\s*\[([^\]]+)\]`)

// getJSON performs one rate-limited GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, connectionID string, ep endpoint, path string, q url.Values, out any) error {
	body, err := c.get(ctx, connectionID, ep, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.ValidationError(ep.name, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// get retries once with a refreshed token when the provider rejects one that
// looked valid locally. A second rejection is an auth failure.
func (c *Client) get(ctx context.Context, connectionID string, ep endpoint, path string, q url.Values) ([]byte, error) {
	body, err := c.call(ctx, connectionID, ep, path, q)
	if !errors.Is(err, errUnauthorized) {
		return body, err
	}

	c.logger.Warn("provider rejected access token, refreshing", "connection_id", connectionID, "endpoint", ep.name)
	c.tokens.Invalidate(connectionID)

	body, err = c.call(ctx, connectionID, ep, path, q)
	if errors.Is(err, errUnauthorized) {
		return nil, domain.AuthError(ep.name, err)
	}
	return body, err
}

func (c *Client) call(ctx context.Context, connectionID string, ep endpoint, path string, q url.Values) ([]byte, error) {
	return ratelimit.Do(ctx, c.limiter, func(ctx context.Context) ([]byte, error) {
		token, err := c.tokens.GetValidAccessToken(ctx, connectionID)
		if err != nil {
			return nil, err
		}

		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.doRequest(ctx, token, ep, path, q)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.TransportError(ep.name, err)
		}
		return body, err
	})
}

func (c *Client) doRequest(ctx context.Context, token string, ep endpoint, path string, q url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "WebinarSync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.ProviderRequests.WithLabelValues(ep.name, "error").Inc()
		return nil, domain.TransportError(ep.name, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	metrics.ProviderRequests.WithLabelValues(ep.name, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.TransportError(ep.name, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, c.statusError(ep, resp, body)
}

func (c *Client) statusError(ep endpoint, resp *http.Response, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: eb.Code, Message: eb.Message}

	msg := strings.ToLower(eb.Message)
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ratelimit.RetryAfterError{RetryAfter: retryAfter(resp.Header, c.now()), Err: apiErr}
	case strings.Contains(msg, "does not contain scope"), resp.StatusCode == http.StatusForbidden:
		scope := ep.scope
		if m := scopeList.FindStringSubmatch(eb.Message); m != nil {
			scope = m[1]
		}
		return domain.ScopeError(ep.name, scope)
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.kind = errUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		apiErr.kind = domain.ErrNotFound
	case strings.Contains(msg, "next_page_token"):
		apiErr.kind = domain.ErrPagination
	case resp.StatusCode >= 500:
		apiErr.kind = domain.ErrTransport
	default:
		apiErr.kind = domain.ErrItem
	}
	return fmt.Errorf("%s: %w", ep.name, apiErr)
}

// retryAfter reads Retry-After as seconds or an HTTP date. Zero means the
// header was absent or unusable.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// optional reports whether a failed sub-fetch may be skipped without failing
// the whole item.
func optional(err error) bool {
	return errors.Is(err, domain.ErrScope) || errors.Is(err, domain.ErrNotFound)
}

func (c *Client) params(path string) pagination.Params {
	return pagination.Params{Path: path, PageSize: c.pageSize}
}

// walk pages through one listing endpoint and decodes each page with decode.
func walk[T any](ctx context.Context, c *Client, connectionID, webinarID string, ep endpoint, first pagination.Params,
	decode func(body []byte) ([]T, pageInfo, error)) (*pagination.Result[T], error) {
	return pagination.Walk(ctx, c.cursors, connectionID, webinarID, first,
		func(ctx context.Context, p pagination.Params) (*pagination.Page[T], error) {
			q, err := p.Values()
			if err != nil {
				return nil, err
			}
			body, err := c.get(ctx, connectionID, ep, p.Path, q)
			if err != nil {
				return nil, err
			}
			items, info, err := decode(body)
			if err != nil {
				return nil, domain.ValidationError(ep.name, err)
			}
			return &pagination.Page[T]{
				Items:         items,
				NextPageToken: info.NextPageToken,
				PageNumber:    info.PageNumber,
				PageCount:     info.PageCount,
				TotalRecords:  info.TotalRecords,
			}, nil
		})
}

// decodeRows decodes a page envelope whose rows sit under field. Rows that
// fail to decode or validate are skipped and logged.
func decodeRows[T any](c *Client, ep endpoint, field string) func(body []byte) ([]T, pageInfo, error) {
	return func(body []byte) ([]T, pageInfo, error) {
		var info pageInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return nil, info, fmt.Errorf("decode page: %w", err)
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, info, fmt.Errorf("decode page: %w", err)
		}
		var raw []json.RawMessage
		if data, ok := envelope[field]; ok && string(data) != "null" {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, info, fmt.Errorf("decode %s: %w", field, err)
			}
		}

		rows := make([]T, 0, len(raw))
		for i, r := range raw {
			var row T
			err := json.Unmarshal(r, &row)
			if err == nil {
				err = c.validate.Struct(row)
			}
			if err != nil {
				c.logger.Warn("skipping invalid row",
					"endpoint", ep.name,
					"index", i,
					"error", domain.ValidationError(ep.name, err),
				)
				continue
			}
			rows = append(rows, row)
		}
		return rows, info, nil
	}
}
