package pagination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webinar_sync/internal/domain"
)

func testCursors() (*Cursors, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, 0, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestWalk_FollowsTokensAndCleansUp(t *testing.T) {
	c, store := testCursors()
	pages := map[string]*Page[int]{
		"":   {Items: []int{1, 2}, NextPageToken: "p2", TotalRecords: 5},
		"p2": {Items: []int{3, 4}, NextPageToken: "p3"},
		"p3": {Items: []int{5}},
	}

	var seen []Params
	res, err := Walk(context.Background(), c, "user-1", "", Params{Path: "/users/me/webinars", Type: "past", PageSize: 2},
		func(_ context.Context, p Params) (*Page[int], error) {
			seen = append(seen, p)
			return pages[p.NextPageToken], nil
		})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res.Items)
	assert.Equal(t, 5, res.TotalRecords)
	assert.False(t, res.Restarted)
	assert.Empty(t, res.Warnings)
	require.Len(t, seen, 3)
	for _, p := range seen {
		assert.Equal(t, "/users/me/webinars", p.Path)
		assert.Equal(t, "past", p.Type)
	}
	assert.Equal(t, 0, store.Len())
}

func TestWalk_LegacyPageNumbersWarn(t *testing.T) {
	c, _ := testCursors()

	res, err := Walk(context.Background(), c, "user-1", "", Params{Path: "/webinars/1/registrants", PageNumber: 1},
		func(_ context.Context, p Params) (*Page[string], error) {
			return &Page[string]{Items: []string{p.Path}, PageNumber: p.PageNumber, PageCount: 3}, nil
		})

	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, []string{LegacyPagingWarning}, res.Warnings)
}

func TestWalk_RestartsOnceOnPaginationError(t *testing.T) {
	c, _ := testCursors()
	calls := 0

	res, err := Walk(context.Background(), c, "user-1", "9", Params{Path: "/report/webinars/9/participants"},
		func(_ context.Context, p Params) (*Page[int], error) {
			calls++
			switch {
			case calls == 2:
				return nil, domain.NewError(domain.ErrPagination, "list participants", errors.New("invalid next_page_token"))
			case p.NextPageToken == "":
				return &Page[int]{Items: []int{1}, NextPageToken: "n"}, nil
			default:
				return &Page[int]{Items: []int{2}}, nil
			}
		})

	require.NoError(t, err)
	assert.True(t, res.Restarted)
	assert.Equal(t, []int{1, 2}, res.Items)
	assert.Equal(t, 4, calls)
}

func TestWalk_SecondPaginationErrorSurfaces(t *testing.T) {
	c, _ := testCursors()
	calls := 0

	_, err := Walk(context.Background(), c, "user-1", "", Params{Path: "/x"},
		func(context.Context, Params) (*Page[int], error) {
			calls++
			return nil, ErrTokenExpired
		})

	assert.ErrorIs(t, err, domain.ErrPagination)
	assert.Equal(t, 2, calls)
}

func TestWalk_OtherErrorsAreNotRetried(t *testing.T) {
	c, _ := testCursors()
	calls := 0

	_, err := Walk(context.Background(), c, "user-1", "", Params{Path: "/x"},
		func(context.Context, Params) (*Page[int], error) {
			calls++
			return nil, domain.TransportError("get", errors.New("connection reset"))
		})

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 1, calls)
}

func TestWalk_RepeatedTokenIsPaginationError(t *testing.T) {
	c, _ := testCursors()

	_, err := Walk(context.Background(), c, "user-1", "", Params{Path: "/x"},
		func(context.Context, Params) (*Page[int], error) {
			return &Page[int]{Items: []int{1}, NextPageToken: "same"}, nil
		})

	assert.ErrorIs(t, err, domain.ErrPagination)
}
