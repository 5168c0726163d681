package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the sync engine produces wraps exactly one of
// these so callers can branch with errors.Is.
var (
	ErrAuth       = errors.New("auth error")
	ErrScope      = errors.New("scope error")
	ErrRateLimit  = errors.New("rate limit error")
	ErrPagination = errors.New("pagination error")
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")
	ErrItem       = errors.New("item failure")
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// SyncError carries the kind, the failing operation and, for scope errors,
// a remediation hint that is shown to the operator.
type SyncError struct {
	Kind error
	Op   string
	Err  error
	Hint string
}

func (e *SyncError) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *SyncError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewError(kind error, op string, err error) *SyncError {
	return &SyncError{Kind: kind, Op: op, Err: err}
}

func AuthError(op string, err error) error {
	return NewError(ErrAuth, op, err)
}

func ScopeError(op, scope string) error {
	return &SyncError{
		Kind: ErrScope,
		Op:   op,
		Err:  fmt.Errorf("missing scope %q", scope),
		Hint: fmt.Sprintf("reconnect the account and grant the %s scope", scope),
	}
}

func ValidationError(op string, err error) error {
	return NewError(ErrValidation, op, err)
}

func TransportError(op string, err error) error {
	return NewError(ErrTransport, op, err)
}

// RetryPolicy says whether an error kind may be retried and how often.
type RetryPolicy struct {
	Retry       bool
	MaxAttempts int
}

// Ordered: the first matching kind wins.
var retryPolicies = []struct {
	kind   error
	policy RetryPolicy
}{
	{ErrAuth, RetryPolicy{Retry: false}},
	{ErrScope, RetryPolicy{Retry: false}},
	{ErrRateLimit, RetryPolicy{Retry: true, MaxAttempts: 1}},
	{ErrPagination, RetryPolicy{Retry: true, MaxAttempts: 1}},
	{ErrValidation, RetryPolicy{Retry: false}},
	{ErrTransport, RetryPolicy{Retry: false}},
	{ErrItem, RetryPolicy{Retry: false}},
}

// RetryPolicyFor looks up the policy for the first kind err wraps. Unknown
// errors are never retried.
func RetryPolicyFor(err error) RetryPolicy {
	for _, p := range retryPolicies {
		if errors.Is(err, p.kind) {
			return p.policy
		}
	}
	return RetryPolicy{}
}

// Fatal reports whether err must abort the whole run rather than one item.
func Fatal(err error) bool {
	return errors.Is(err, ErrAuth)
}
