package pagination

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"webinar_sync/internal/domain"
)

// Page is one decoded provider page.
type Page[T any] struct {
	Items         []T
	NextPageToken string
	PageNumber    int
	PageCount     int
	TotalRecords  int
}

type FetchFunc[T any] func(ctx context.Context, params Params) (*Page[T], error)

type Result[T any] struct {
	Items        []T
	TotalRecords int
	Warnings     []string
	Restarted    bool
}

// Walk reads every page of a provider listing. After each page the
// continuation is stored as a cursor and the next request is rebuilt from
// the stored copy. A pagination failure anywhere restarts the walk from the
// first page once; a second one is returned.
func Walk[T any](ctx context.Context, c *Cursors, owner, webinarID string, first Params, fetch FetchFunc[T]) (*Result[T], error) {
	res := &Result[T]{}

	for attempt := 0; ; attempt++ {
		res.Items = res.Items[:0]
		err := walkOnce(ctx, c, owner, webinarID, first, fetch, res)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrPagination) || attempt > 0 {
			return nil, err
		}

		c.logger.Warn("pagination failed, restarting from first page",
			"path", first.Path,
			"webinar_id", webinarID,
			"error", err,
		)
		res.Restarted = true
		first = first.FirstPage()
	}
}

func walkOnce[T any](ctx context.Context, c *Cursors, owner, webinarID string, params Params, fetch FetchFunc[T], res *Result[T]) error {
	for pageIndex := 0; ; pageIndex++ {
		warnings, err := params.Validate()
		if err != nil {
			return err
		}
		for _, w := range warnings {
			c.logger.Warn(w, "path", params.Path, "page_number", params.PageNumber)
			if !slices.Contains(res.Warnings, w) {
				res.Warnings = append(res.Warnings, w)
			}
		}

		page, err := fetch(ctx, params)
		if err != nil {
			return fmt.Errorf("fetch page %d: %w", pageIndex+1, err)
		}

		res.Items = append(res.Items, page.Items...)
		if pageIndex == 0 {
			res.TotalRecords = page.TotalRecords
		}

		current := page.PageNumber
		if current == 0 {
			current = params.PageNumber
		}
		next, ok := params.Next(page.NextPageToken, current, page.PageCount)
		if !ok {
			return nil
		}
		if next.NextPageToken != "" && next.NextPageToken == params.NextPageToken {
			return fmt.Errorf("%w: provider repeated next_page_token", domain.ErrPagination)
		}

		token, err := c.Issue(ctx, next, owner, webinarID)
		if err != nil {
			return err
		}
		if params, err = c.Consume(ctx, token); err != nil {
			return err
		}
	}
}
