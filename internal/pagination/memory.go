package pagination

import (
	"context"
	"sync"
	"time"

	"webinar_sync/internal/domain"
)

// MemoryStore keeps tokens in process. It suits single-process runs from
// the command line, where nothing else needs to see the cursors.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]domain.PaginationToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]domain.PaginationToken)}
}

func (m *MemoryStore) Save(_ context.Context, t domain.PaginationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Token] = t
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*domain.PaginationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *MemoryStore) Touch(_ context.Context, token string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	t.LastAccessedAt = at
	m.tokens[token] = t
	return nil
}

func (m *MemoryStore) Take(_ context.Context, token string) (*domain.PaginationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.tokens, token)
	return &t, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.tokens {
		if t.Expired(now) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored tokens.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}
