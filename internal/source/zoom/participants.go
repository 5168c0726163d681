package zoom

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"webinar_sync/internal/domain"
)

// FetchParticipants returns the deduplicated attendees of a past webinar.
// The report endpoint is preferred as it alone lists every attendee. When it
// fails the basic endpoint is tried by UUID and then by numeric id.
func (c *Client) FetchParticipants(ctx context.Context, connectionID string, item domain.QueueItem) ([]Participant, error) {
	type source struct {
		ep   endpoint
		path string
	}
	sources := []source{
		{epReportParticipants, "/report/webinars/" + pathID(item.ProviderKey()) + "/participants"},
	}
	if item.WebinarUUID != nil && *item.WebinarUUID != "" {
		sources = append(sources, source{epPastParticipants, "/past_webinars/" + pathID(*item.WebinarUUID) + "/participants"})
	}
	sources = append(sources, source{epPastParticipants, "/past_webinars/" + item.WebinarID + "/participants"})

	var errs []error
	for i, src := range sources {
		res, err := walk(ctx, c, connectionID, item.WebinarID, src.ep, c.params(src.path),
			decodeRows[Participant](c, src.ep, "participants"))
		if err == nil {
			if i > 0 {
				c.logger.Info("fetched participants from fallback endpoint",
					"webinar_id", item.WebinarID,
					"endpoint", src.ep.name,
				)
			}
			return DedupParticipants(res.Items), nil
		}
		if domain.Fatal(err) || ctx.Err() != nil {
			return nil, err
		}

		c.logger.Warn("participants endpoint failed",
			"webinar_id", item.WebinarID,
			"endpoint", src.ep.name,
			"error", err,
		)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("fetch participants: %w", errors.Join(errs...))
}

// DedupParticipants merges rows of the same person across pages and
// sessions, keyed by ParticipantKey. The merged row sums durations, counts sessions and spans the earliest join to
// the latest leave.
func DedupParticipants(rows []Participant) []Participant {
	index := make(map[string]int, len(rows))
	out := make([]Participant, 0, len(rows))

	for _, p := range rows {
		key := ParticipantKey(p)
		i, seen := index[key]
		if !seen {
			p.SessionCount = 1
			index[key] = len(out)
			out = append(out, p)
			continue
		}

		merged := &out[i]
		merged.Duration += p.Duration
		merged.SessionCount++
		if earlier(p.JoinTime, merged.JoinTime) {
			merged.JoinTime = p.JoinTime
		}
		if earlier(merged.LeaveTime, p.LeaveTime) {
			merged.LeaveTime = p.LeaveTime
		}
		if merged.Name == "" {
			merged.Name = p.Name
		}
		if merged.UserID == "" {
			merged.UserID = p.UserID
		}
	}
	return out
}

// ParticipantKey is the identity rows are merged on: the email, else the
// user id, else the row id.
func ParticipantKey(p Participant) string {
	switch {
	case p.Email != "":
		return "email:" + normalizeEmail(p.Email)
	case p.UserID != "":
		return "user:" + p.UserID
	default:
		return "id:" + p.ID
	}
}

// earlier reports whether a is a valid timestamp before b. An unparsable b
// always loses.
func earlier(a, b string) bool {
	ta, err := time.Parse(time.RFC3339, a)
	if err != nil {
		return false
	}
	tb, err := time.Parse(time.RFC3339, b)
	if err != nil {
		return true
	}
	return ta.Before(tb)
}

// pathID escapes a webinar UUID for use in a path. UUIDs that start with a
// slash or contain a double slash must be encoded twice.
func pathID(id string) string {
	if strings.HasPrefix(id, "/") || strings.Contains(id, "//") {
		return url.PathEscape(url.PathEscape(id))
	}
	return url.PathEscape(id)
}
