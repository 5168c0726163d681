package zoom

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"webinar_sync/internal/domain"
)

const listWebinarsPath = "/users/me/webinars"

// Queue priorities: past webinars carry reports and go first.
const (
	PriorityUpcoming = 0
	PriorityPast     = 1
)

// ListWebinars returns every webinar in the window exactly once. Past
// webinars are listed from window.Start until now and upcoming ones from now
// until window.End; a webinar present in both lists is classified past.
func (c *Client) ListWebinars(ctx context.Context, connectionID string, window domain.SyncWindow) ([]domain.QueueItem, error) {
	if err := window.Validate(); err != nil {
		return nil, domain.ValidationError("list webinars", err)
	}

	now := c.now()
	merged := make(map[string]domain.QueueItem)
	var order []string

	queries := []struct {
		class    domain.Classification
		typ      string
		from, to time.Time
	}{
		{domain.ClassificationPast, "past", window.Start, now},
		{domain.ClassificationUpcoming, "scheduled", now, window.End},
	}

	for _, q := range queries {
		if !q.from.Before(q.to) {
			continue
		}

		first := c.params(listWebinarsPath)
		first.Type = q.typ
		first.From = q.from.UTC().Format(time.DateOnly)
		first.To = q.to.UTC().Format(time.DateOnly)

		res, err := walk(ctx, c, connectionID, "", epListWebinars, first,
			decodeRows[WebinarSummary](c, epListWebinars, "webinars"))
		if err != nil {
			return nil, fmt.Errorf("list %s webinars: %w", q.typ, err)
		}

		for _, w := range res.Items {
			item := queueItem(w, q.class)
			existing, seen := merged[item.WebinarID]
			switch {
			case !seen:
				order = append(order, item.WebinarID)
				merged[item.WebinarID] = item
			case existing.Classification != domain.ClassificationPast && item.Classification == domain.ClassificationPast:
				merged[item.WebinarID] = item
			}
		}

		c.logger.Info("listed webinars",
			"connection_id", connectionID,
			"type", q.typ,
			"count", len(res.Items),
			"total_records", res.TotalRecords,
		)
	}

	items := make([]domain.QueueItem, 0, len(order))
	for _, id := range order {
		items = append(items, merged[id])
	}
	return items, nil
}

func queueItem(w WebinarSummary, class domain.Classification) domain.QueueItem {
	item := domain.QueueItem{
		WebinarID:      strconv.FormatInt(w.ID, 10),
		Topic:          w.Topic,
		Classification: class,
		Status:         domain.ItemStatusPending,
		Priority:       PriorityUpcoming,
	}
	if class == domain.ClassificationPast {
		item.Priority = PriorityPast
	}
	if w.UUID != "" {
		uuid := w.UUID
		item.WebinarUUID = &uuid
	}
	if t, err := time.Parse(time.RFC3339, w.StartTime); err == nil {
		item.StartTime = &t
	}
	return item
}
