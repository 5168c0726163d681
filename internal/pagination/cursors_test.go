package pagination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"webinar_sync/internal/domain"
)

type CursorsTestSuite struct {
	suite.Suite

	store   *MemoryStore
	cursors *Cursors
	now     time.Time
	ctx     context.Context
}

func (s *CursorsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryStore()
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.cursors = New(s.store, 15*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.cursors.now = func() time.Time { return s.now }
}

func TestCursorsTestSuite(t *testing.T) {
	suite.Run(t, new(CursorsTestSuite))
}

func (s *CursorsTestSuite) params() Params {
	return Params{Path: "/webinars/42/registrants", PageSize: 300, NextPageToken: "provider-token", Status: "approved"}
}

func (s *CursorsTestSuite) TestIssueThenValidate() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "42")
	s.Require().NoError(err)
	s.Len(token, 43)

	got, err := s.cursors.Validate(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(s.params(), got)

	stored := s.store.tokens[token]
	s.Equal("user-1", stored.OwnerID)
	s.Require().NotNil(stored.WebinarID)
	s.Equal("42", *stored.WebinarID)
	s.Equal(s.now.Add(15*time.Minute), stored.ExpiresAt)
}

func (s *CursorsTestSuite) TestValidateIsIdempotentAndTouches() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)
	s.Nil(s.store.tokens[token].WebinarID)

	s.now = s.now.Add(5 * time.Minute)
	first, err := s.cursors.Validate(s.ctx, token)
	s.Require().NoError(err)
	second, err := s.cursors.Validate(s.ctx, token)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(s.now, s.store.tokens[token].LastAccessedAt)
}

func (s *CursorsTestSuite) TestValidateRejectsUnknownToken() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Delete(s.ctx, token))

	_, err = s.cursors.Validate(s.ctx, token)

	s.ErrorIs(err, ErrTokenNotFound)
	s.ErrorIs(err, domain.ErrPagination)
}

func (s *CursorsTestSuite) TestValidateRejectsMalformedToken() {
	for _, token := range []string{"", "short", "not base64 at all!!", "aGVsbG8"} {
		_, err := s.cursors.Validate(s.ctx, token)
		s.ErrorIs(err, ErrTokenMalformed, token)
		s.ErrorIs(err, domain.ErrPagination, token)
	}
}

func (s *CursorsTestSuite) TestValidateRejectsExpiredTokenAndDeletesIt() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)

	s.now = s.now.Add(15*time.Minute + time.Second)
	_, err = s.cursors.Validate(s.ctx, token)

	s.ErrorIs(err, ErrTokenExpired)
	s.ErrorIs(err, domain.ErrPagination)
	s.Equal(0, s.store.Len())
}

func (s *CursorsTestSuite) TestConsumeIsSingleUse() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)

	got, err := s.cursors.Consume(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(s.params(), got)

	_, err = s.cursors.Consume(s.ctx, token)
	s.ErrorIs(err, ErrTokenNotFound)
}

func (s *CursorsTestSuite) TestConsumeRejectsExpiredToken() {
	token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	_, err = s.cursors.Consume(s.ctx, token)

	s.ErrorIs(err, ErrTokenExpired)
}

func (s *CursorsTestSuite) TestSweepDeletesOnlyExpired() {
	old, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)
	s.now = s.now.Add(10 * time.Minute)
	fresh, err := s.cursors.Issue(s.ctx, s.params(), "user-1", "")
	s.Require().NoError(err)

	s.now = s.now.Add(6 * time.Minute)
	n, err := s.cursors.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.cursors.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	s.NotContains(s.store.tokens, old)
	s.Contains(s.store.tokens, fresh)
}

func (s *CursorsTestSuite) TestIssueRejectsConflictingParams() {
	p := s.params()
	p.PageNumber = 2

	_, err := s.cursors.Issue(s.ctx, p, "user-1", "")

	s.ErrorIs(err, ErrConflictingPagination)
	s.Equal(0, s.store.Len())
}

func (s *CursorsTestSuite) TestConcurrentIssueAcrossWebinars() {
	var wg sync.WaitGroup
	tokens := make([]string, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := s.cursors.Issue(s.ctx, s.params(), "user-1", string(rune('a'+i)))
			if err == nil {
				tokens[i] = token
			}
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, token := range tokens {
		s.NotEmpty(token)
		seen[token] = true
	}
	s.Len(seen, 20)
}

func TestParams_Validate(t *testing.T) {
	warnings, err := Params{PageNumber: 1}.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	warnings, err = Params{PageNumber: 3}.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{LegacyPagingWarning}, warnings)

	_, err = Params{PageNumber: 2, NextPageToken: "x"}.Validate()
	assert.True(t, errors.Is(err, ErrConflictingPagination))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = Params{PageSize: -1}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParams_Values(t *testing.T) {
	v, err := Params{
		Path:          "/users/me/webinars",
		Type:          "past",
		PageSize:      300,
		NextPageToken: "abc",
		From:          "2026-01-01",
	}.Values()
	require.NoError(t, err)

	assert.Equal(t, "abc", v.Get("next_page_token"))
	assert.Equal(t, "past", v.Get("type"))
	assert.Equal(t, "300", v.Get("page_size"))
	assert.Equal(t, "2026-01-01", v.Get("from"))
	assert.False(t, v.Has("page_number"))
	assert.False(t, v.Has("path"))
}
