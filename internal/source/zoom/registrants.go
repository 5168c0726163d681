package zoom

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/pagination"
)

// RegistrantFilter narrows a registrant listing. Empty fields are not sent.
type RegistrantFilter struct {
	OccurrenceID     string
	Status           string
	TrackingSourceID string
}

func (c *Client) registrantParams(webinarID string, f RegistrantFilter) pagination.Params {
	p := c.params("/webinars/" + webinarID + "/registrants")
	p.OccurrenceID = f.OccurrenceID
	p.Status = f.Status
	p.TrackingSourceID = f.TrackingSourceID
	return p
}

// FetchRegistrants lists every registrant matching the filter. An empty
// status fetches each configured status in turn.
func (c *Client) FetchRegistrants(ctx context.Context, connectionID, webinarID string, f RegistrantFilter) ([]Registrant, error) {
	regs, _, err := c.fetchRegistrants(ctx, connectionID, webinarID, f)
	return regs, err
}

// RegistrantCount reads only total_records with a one-row page, for when
// the rows themselves are not needed.
func (c *Client) RegistrantCount(ctx context.Context, connectionID, webinarID string, f RegistrantFilter) (int, error) {
	p := c.registrantParams(webinarID, f)
	p.PageSize = 1

	q, err := p.Values()
	if err != nil {
		return 0, err
	}
	body, err := c.get(ctx, connectionID, epRegistrants, p.Path, q)
	if err != nil {
		return 0, fmt.Errorf("count registrants: %w", err)
	}

	var info pageInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return 0, domain.ValidationError("count registrants", fmt.Errorf("decode response: %w", err))
	}
	return info.TotalRecords, nil
}
