// Package ratelimit gates every outbound provider call behind per-second and
// per-minute sliding windows and absorbs provider 429 responses.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/metrics"
)

const (
	DefaultPerSecond    = 2
	DefaultPerMinute    = 30
	DefaultFallbackWait = 60 * time.Second
)

// RetryAfterError is returned by a wrapped call when the provider answered
// 429. A zero RetryAfter means the response carried no usable header.
type RetryAfterError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RetryAfterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
}

func (e *RetryAfterError) Unwrap() error { return e.Err }

// Clock lets tests drive time.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type Config struct {
	PerSecond    int
	PerMinute    int
	FallbackWait time.Duration
}

type Limiter struct {
	perSecond    int
	perMinute    int
	fallbackWait time.Duration
	clock        Clock
	logger       *slog.Logger

	mu sync.Mutex
	// grants holds the admission times of the last minute, oldest first.
	grants         []time.Time
	suspendedUntil time.Time
}

type Option func(*Limiter)

func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

func New(cfg Config, logger *slog.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		perSecond:    cfg.PerSecond,
		perMinute:    cfg.PerMinute,
		fallbackWait: cfg.FallbackWait,
		clock:        realClock{},
		logger:       logger.With("component", "rate_limiter"),
	}
	if l.perSecond <= 0 {
		l.perSecond = DefaultPerSecond
	}
	if l.perMinute <= 0 {
		l.perMinute = DefaultPerMinute
	}
	if l.fallbackWait <= 0 {
		l.fallbackWait = DefaultFallbackWait
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Execute runs fn once a slot is free. A 429 from fn suspends every caller
// until the retry-after deadline and fn is retried exactly once.
func (l *Limiter) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, l, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Do is Execute for calls that return a value.
func Do[T any](ctx context.Context, l *Limiter, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := l.Wait(ctx); err != nil {
		return zero, err
	}
	result, err := fn(ctx)

	var rateErr *RetryAfterError
	if !errors.As(err, &rateErr) {
		return result, err
	}

	wait := rateErr.RetryAfter
	if wait <= 0 {
		wait = l.fallbackWait
	}
	l.Suspend(wait)
	metrics.RateLimitRetries.Inc()
	l.logger.Warn("provider rate limited, suspending calls", "retry_after", wait)

	if err := l.Wait(ctx); err != nil {
		return zero, err
	}
	result, err = fn(ctx)
	if errors.As(err, &rateErr) {
		return zero, domain.NewError(domain.ErrRateLimit, "retry after backoff", err)
	}
	return result, err
}

// Suspend blocks all admissions for d from now. An earlier deadline never
// shortens a suspension already in place.
func (l *Limiter) Suspend(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until := l.clock.Now().Add(d)
	if until.After(l.suspendedUntil) {
		l.suspendedUntil = until
	}
}

// Wait blocks until the caller may issue one request and records it.
func (l *Limiter) Wait(ctx context.Context) error {
	waited := false
	start := l.clock.Now()
	for {
		delay := l.reserve()
		if delay <= 0 {
			if waited {
				metrics.RateLimitWaitSeconds.Observe(l.clock.Now().Sub(start).Seconds())
			}
			return nil
		}
		waited = true

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(delay):
		}
	}
}

// reserve admits the caller and returns zero, or returns how long to wait
// before trying again.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Before(l.suspendedUntil) {
		return l.suspendedUntil.Sub(now)
	}

	l.prune(now)

	if len(l.grants) >= l.perMinute {
		return l.grants[len(l.grants)-l.perMinute].Add(time.Minute).Sub(now)
	}

	secondStart := now.Add(-time.Second)
	inSecond := 0
	for i := len(l.grants) - 1; i >= 0 && l.grants[i].After(secondStart); i-- {
		inSecond++
	}
	if inSecond >= l.perSecond {
		oldest := l.grants[len(l.grants)-l.perSecond]
		return oldest.Add(time.Second).Sub(now)
	}

	l.grants = append(l.grants, now)
	return 0
}

func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-time.Minute)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}
