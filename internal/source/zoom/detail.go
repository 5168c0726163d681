package zoom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"webinar_sync/internal/domain"
)

// FetchDetail gathers the webinar and all of its children for one queue
// item. The webinar itself is required. A child listing is skipped with a
// warning when the connection lacks the scope for it or the provider has
// nothing there; any other failure fails the item.
func (c *Client) FetchDetail(ctx context.Context, connectionID string, item domain.QueueItem) (*WebinarDetail, error) {
	past := item.Classification == domain.ClassificationPast
	d := &WebinarDetail{Item: item}

	w, err := c.fetchWebinar(ctx, connectionID, item)
	if err != nil {
		return nil, err
	}
	d.Webinar = *w
	if past && item.WebinarUUID == nil && w.UUID != "" {
		uuid := w.UUID
		d.Item.WebinarUUID = &uuid
	}

	regs, total, err := c.fetchRegistrants(ctx, connectionID, item.WebinarID, RegistrantFilter{})
	switch {
	case err == nil:
		d.Registrants = regs
		d.RegistrantTotal = total
	case optional(err) && ctx.Err() == nil:
		c.skip(d, "registrants", err)
		if count, cerr := c.RegistrantCount(ctx, connectionID, item.WebinarID, RegistrantFilter{}); cerr == nil {
			d.RegistrantTotal = count
		}
	default:
		return nil, fmt.Errorf("fetch registrants: %w", err)
	}

	if past {
		participants, err := c.FetchParticipants(ctx, connectionID, d.Item)
		switch {
		case err == nil:
			d.Participants = participants
		case optional(err):
			c.skip(d, "participants", err)
		default:
			return nil, err
		}
	}

	if err := c.optionalStep(ctx, d, "polls", func() error { return c.fetchPolls(ctx, connectionID, d) }); err != nil {
		return nil, err
	}
	if past {
		if err := c.optionalStep(ctx, d, "poll_results", func() error { return c.fetchPollResults(ctx, connectionID, d) }); err != nil {
			return nil, err
		}
		if err := c.optionalStep(ctx, d, "qna", func() error { return c.fetchQnA(ctx, connectionID, d) }); err != nil {
			return nil, err
		}
	}
	if err := c.optionalStep(ctx, d, "tracking_sources", func() error { return c.fetchTrackingSources(ctx, connectionID, d) }); err != nil {
		return nil, err
	}

	return d, nil
}

func (c *Client) optionalStep(ctx context.Context, d *WebinarDetail, part string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if optional(err) && ctx.Err() == nil {
		c.skip(d, part, err)
		return nil
	}
	return fmt.Errorf("fetch %s: %w", part, err)
}

func (c *Client) skip(d *WebinarDetail, part string, err error) {
	d.Skipped = append(d.Skipped, part)

	attrs := []any{"webinar_id", d.Item.WebinarID, "part", part, "error", err}
	var syncErr *domain.SyncError
	if errors.As(err, &syncErr) && syncErr.Hint != "" {
		attrs = append(attrs, "hint", syncErr.Hint)
	}
	c.logger.Warn("skipping optional webinar data", attrs...)
}

// fetchWebinar prefers the past-instance endpoint for past webinars and
// falls back to the plain webinar endpoint.
func (c *Client) fetchWebinar(ctx context.Context, connectionID string, item domain.QueueItem) (*Webinar, error) {
	var w Webinar

	if item.Classification == domain.ClassificationPast {
		err := c.getJSON(ctx, connectionID, epGetPastWebinar, "/past_webinars/"+pathID(item.ProviderKey()), nil, &w)
		if err == nil {
			return c.checkWebinar(&w)
		}
		if domain.Fatal(err) || ctx.Err() != nil {
			return nil, err
		}
		c.logger.Debug("past webinar endpoint failed, falling back", "webinar_id", item.WebinarID, "error", err)
		w = Webinar{}
	}

	if err := c.getJSON(ctx, connectionID, epGetWebinar, "/webinars/"+item.WebinarID, nil, &w); err != nil {
		return nil, fmt.Errorf("fetch webinar %s: %w", item.WebinarID, err)
	}
	return c.checkWebinar(&w)
}

func (c *Client) checkWebinar(w *Webinar) (*Webinar, error) {
	if err := c.validate.Struct(w); err != nil {
		return nil, domain.ValidationError("fetch webinar", err)
	}
	return w, nil
}

func (c *Client) fetchRegistrants(ctx context.Context, connectionID, webinarID string, f RegistrantFilter) ([]Registrant, int, error) {
	statuses := []string{f.Status}
	if f.Status == "" {
		statuses = c.statuses
	}

	var all []Registrant
	total := 0
	for _, status := range statuses {
		filter := f
		filter.Status = status

		res, err := walk(ctx, c, connectionID, webinarID, epRegistrants, c.registrantParams(webinarID, filter),
			decodeRows[Registrant](c, epRegistrants, "registrants"))
		if err != nil {
			return nil, 0, fmt.Errorf("fetch %s registrants: %w", status, err)
		}

		total += res.TotalRecords
		for _, r := range res.Items {
			if r.Status == "" {
				r.Status = status
			}
			r.OccurrenceID = f.OccurrenceID
			r.TrackingSourceID = f.TrackingSourceID
			all = append(all, r)
		}
	}
	return all, total, nil
}

func (c *Client) fetchPolls(ctx context.Context, connectionID string, d *WebinarDetail) error {
	body, err := c.get(ctx, connectionID, epPolls, "/webinars/"+d.Item.WebinarID+"/polls", nil)
	if err != nil {
		return err
	}
	polls, _, err := decodeRows[Poll](c, epPolls, "polls")(body)
	if err != nil {
		return domain.ValidationError(epPolls.name, err)
	}
	d.Polls = polls
	return nil
}

// fetchPollResults counts answers per voter and distinct voters per poll.
func (c *Client) fetchPollResults(ctx context.Context, connectionID string, d *WebinarDetail) error {
	var res pollResults
	if err := c.getJSON(ctx, connectionID, epPastPolls, "/past_webinars/"+pathID(d.Item.ProviderKey())+"/polls", nil, &res); err != nil {
		return err
	}

	answers := make(map[string]int)
	voters := make(map[string]map[string]bool)
	for _, voter := range res.Questions {
		email := normalizeEmail(voter.Email)
		for _, a := range voter.Details {
			if email != "" {
				answers[email]++
			}
			if voters[a.PollingID] == nil {
				voters[a.PollingID] = make(map[string]bool)
			}
			voters[a.PollingID][email+"|"+voter.Name] = true
		}
	}

	for i := range d.Participants {
		d.Participants[i].AnsweredPolls = answers[normalizeEmail(d.Participants[i].Email)]
	}
	for i := range d.Polls {
		d.Polls[i].Responses = len(voters[d.Polls[i].ID])
	}
	return nil
}

func (c *Client) fetchQnA(ctx context.Context, connectionID string, d *WebinarDetail) error {
	var res qaResults
	if err := c.getJSON(ctx, connectionID, epQA, "/past_webinars/"+pathID(d.Item.ProviderKey())+"/qa", nil, &res); err != nil {
		return err
	}

	asked := make(map[string]int)
	for _, asker := range res.Questions {
		for _, q := range asker.Details {
			if strings.TrimSpace(q.Question) == "" {
				continue
			}
			d.QnA = append(d.QnA, QnAEntry{
				AskerName:  asker.Name,
				AskerEmail: asker.Email,
				Question:   q.Question,
				Answer:     q.Answer,
			})
			if email := normalizeEmail(asker.Email); email != "" {
				asked[email]++
			}
		}
	}

	for i := range d.Participants {
		d.Participants[i].Questions = asked[normalizeEmail(d.Participants[i].Email)]
	}
	return nil
}

func (c *Client) fetchTrackingSources(ctx context.Context, connectionID string, d *WebinarDetail) error {
	var res trackingSourcesResponse
	if err := c.getJSON(ctx, connectionID, epTrackingSources, "/webinars/"+d.Item.WebinarID+"/tracking_sources", nil, &res); err != nil {
		return err
	}
	d.TrackingSources = res.TrackingSources
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
