package pagination

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"

	"webinar_sync/internal/domain"
)

// LegacyPagingWarning accompanies any request continued by page number.
const LegacyPagingWarning = "page_number pagination is deprecated and will be removed, continue with next_page_token"

var ErrConflictingPagination = fmt.Errorf("%w: page_number and next_page_token are mutually exclusive", domain.ErrValidation)

// Params is the full query of one provider page request. It is what a
// cursor stores server side, so a continuation never depends on parameters
// echoed back by a client.
type Params struct {
	Path             string `json:"path" url:"-"`
	Type             string `json:"type,omitempty" url:"type,omitempty"`
	PageSize         int    `json:"page_size,omitempty" url:"page_size,omitempty"`
	PageNumber       int    `json:"page_number,omitempty" url:"page_number,omitempty"`
	NextPageToken    string `json:"next_page_token,omitempty" url:"next_page_token,omitempty"`
	From             string `json:"from,omitempty" url:"from,omitempty"`
	To               string `json:"to,omitempty" url:"to,omitempty"`
	Status           string `json:"status,omitempty" url:"status,omitempty"`
	OccurrenceID     string `json:"occurrence_id,omitempty" url:"occurrence_id,omitempty"`
	TrackingSourceID string `json:"tracking_source_id,omitempty" url:"tracking_source_id,omitempty"`
}

// Validate rejects a request that mixes both paging protocols. Legacy
// page-number continuation is allowed but reported back as a warning.
func (p Params) Validate() ([]string, error) {
	if p.PageNumber > 0 && p.NextPageToken != "" {
		return nil, ErrConflictingPagination
	}
	if p.PageNumber < 0 || p.PageSize < 0 {
		return nil, domain.ValidationError("validate pagination params", errors.New("negative page_number or page_size"))
	}
	if p.PageNumber > 1 {
		return []string{LegacyPagingWarning}, nil
	}
	return nil, nil
}

// Legacy reports whether the request pages by number.
func (p Params) Legacy() bool {
	return p.PageNumber > 0
}

// Values encodes the params as a provider query string.
func (p Params) Values() (url.Values, error) {
	v, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("encode query params: %w", err)
	}
	return v, nil
}

// Next builds the request for the page after one that returned the given
// continuation. ok is false once the last page has been read.
func (p Params) Next(nextPageToken string, pageNumber, pageCount int) (Params, bool) {
	next := p
	if nextPageToken != "" {
		next.NextPageToken = nextPageToken
		next.PageNumber = 0
		return next, true
	}
	if p.Legacy() && pageNumber < pageCount {
		next.PageNumber = pageNumber + 1
		next.NextPageToken = ""
		return next, true
	}
	return Params{}, false
}

// FirstPage strips any continuation so the query restarts from page 1.
func (p Params) FirstPage() Params {
	first := p
	first.NextPageToken = ""
	if first.PageNumber > 0 {
		first.PageNumber = 1
	}
	return first
}
