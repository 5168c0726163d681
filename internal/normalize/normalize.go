package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/source/zoom"
)

// Batch holds the child rows of one webinar, ready for the writer.
type Batch struct {
	Registrants  []domain.Registrant
	Participants []domain.Participant
	Polls        []domain.Poll
	QnA          []domain.QnA
}

func (b Batch) Len() int {
	return len(b.Registrants) + len(b.Participants) + len(b.Polls) + len(b.QnA)
}

// ToWebinar maps the fetched webinar onto the canonical row. Counts and
// engagement are left for the aggregator.
func ToWebinar(connectionID string, d *zoom.WebinarDetail, now time.Time) (domain.Webinar, error) {
	w := d.Webinar
	if w.ID <= 0 {
		return domain.Webinar{}, domain.ValidationError("normalize webinar", fmt.Errorf("missing provider id for queue item %s", d.Item.WebinarID))
	}

	start, err := parseTime(w.StartTime)
	if err != nil {
		return domain.Webinar{}, domain.ValidationError("normalize webinar", fmt.Errorf("start_time: %w", err))
	}
	if start == nil {
		start = d.Item.StartTime
	}

	topic := w.Topic
	if topic == "" {
		topic = d.Item.Topic
	}

	uuid := d.Item.WebinarUUID
	if uuid == nil {
		uuid = optional(w.UUID)
	}

	return domain.Webinar{
		ConnectionID:     connectionID,
		ProviderID:       strconv.FormatInt(w.ID, 10),
		ProviderUUID:     uuid,
		HostID:           w.HostID,
		Topic:            topic,
		Agenda:           optional(w.Agenda),
		Type:             w.Type,
		Status:           InferStatus(d.Item.Classification, w.Status, start, now),
		ProviderStatus:   optional(w.Status),
		StartTime:        start,
		DurationMinutes:  w.Duration,
		Timezone:         optional(w.Timezone),
		JoinURL:          optional(w.JoinURL),
		RegistrationURL:  optional(w.RegistrationURL),
		RegistrantsTotal: d.RegistrantTotal,
		TrackingSources:  domain.TrackingSources(d.TrackingSources),
		SyncedAt:         now,
	}, nil
}

func ToRegistrant(webinarID int64, r zoom.Registrant) (domain.Registrant, error) {
	email := strings.TrimSpace(r.Email)
	if r.ID == "" || email == "" {
		return domain.Registrant{}, domain.ValidationError("normalize registrant", fmt.Errorf("registrant %q has no id or email", r.ID))
	}
	registeredAt, err := parseTime(r.CreateTime)
	if err != nil {
		return domain.Registrant{}, domain.ValidationError("normalize registrant", fmt.Errorf("registrant %s create_time: %w", r.ID, err))
	}

	return domain.Registrant{
		WebinarID:        webinarID,
		ProviderID:       r.ID,
		Email:            strings.ToLower(email),
		FirstName:        r.FirstName,
		LastName:         optional(r.LastName),
		Status:           r.Status,
		JoinURL:          optional(r.JoinURL),
		TrackingSourceID: optional(r.TrackingSourceID),
		OccurrenceID:     optional(r.OccurrenceID),
		RegisteredAt:     registeredAt,
	}, nil
}

// ToParticipant expects a row already merged by zoom.DedupParticipants; its
// merge key becomes the provider id so reruns land on the same row.
func ToParticipant(webinarID int64, p zoom.Participant) (domain.Participant, error) {
	if p.ID == "" && p.UserID == "" && p.Email == "" {
		return domain.Participant{}, domain.ValidationError("normalize participant", errors.New("participant has no id, user id or email"))
	}
	join, err := parseTime(p.JoinTime)
	if err != nil {
		return domain.Participant{}, domain.ValidationError("normalize participant", fmt.Errorf("join_time: %w", err))
	}
	leave, err := parseTime(p.LeaveTime)
	if err != nil {
		return domain.Participant{}, domain.ValidationError("normalize participant", fmt.Errorf("leave_time: %w", err))
	}

	sessions := p.SessionCount
	if sessions < 1 {
		sessions = 1
	}

	out := domain.Participant{
		WebinarID:       webinarID,
		ProviderID:      zoom.ParticipantKey(p),
		UserID:          optional(p.UserID),
		Name:            p.Name,
		Email:           optional(strings.ToLower(strings.TrimSpace(p.Email))),
		JoinTime:        join,
		LeaveTime:       leave,
		DurationSeconds: max(p.Duration, 0),
		SessionCount:    sessions,
		AnsweredPolls:   p.AnsweredPolls,
		AskedQuestions:  p.Questions,
	}
	out.EngagementScore = EngagementScore(Engagement{
		DurationSeconds: out.DurationSeconds,
		AnsweredPolls:   out.AnsweredPolls,
		Questions:       out.AskedQuestions,
		ChatMessages:    out.ChatMessages,
		HandRaises:      out.HandRaises,
	})
	return out, nil
}

func ToPoll(webinarID int64, p zoom.Poll) (domain.Poll, error) {
	if p.ID == "" {
		return domain.Poll{}, domain.ValidationError("normalize poll", errors.New("poll has no id"))
	}
	return domain.Poll{
		WebinarID:  webinarID,
		ProviderID: p.ID,
		Title:      p.Title,
		Status:     optional(p.Status),
		Questions:  len(p.Questions),
		Responses:  p.Responses,
	}, nil
}

// ToQnA derives the provider id from the asker and the question text, as the
// provider does not return one.
func ToQnA(webinarID int64, q zoom.QnAEntry) (domain.QnA, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return domain.QnA{}, domain.ValidationError("normalize qna", errors.New("empty question"))
	}
	email := strings.ToLower(strings.TrimSpace(q.AskerEmail))

	return domain.QnA{
		WebinarID:  webinarID,
		ProviderID: qnaID(email, q.AskerName, question),
		AskerName:  q.AskerName,
		AskerEmail: optional(email),
		Question:   question,
		Answer:     optional(strings.TrimSpace(q.Answer)),
	}, nil
}

func qnaID(email, name, question string) string {
	sum := sha256.Sum256([]byte(email + "\x00" + name + "\x00" + question))
	return hex.EncodeToString(sum[:16])
}

// Children converts every child row of d. Rows that fail conversion are left
// out and reported in the returned errors; the rest are kept.
func Children(webinarID int64, d *zoom.WebinarDetail) (Batch, []error) {
	var b Batch
	var errs []error

	// A registrant listed on two pages or under two statuses is one row;
	// the later listing wins.
	regIndex := make(map[string]int, len(d.Registrants))
	for _, r := range d.Registrants {
		row, err := ToRegistrant(webinarID, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if i, ok := regIndex[row.ProviderID]; ok {
			b.Registrants[i] = row
			continue
		}
		regIndex[row.ProviderID] = len(b.Registrants)
		b.Registrants = append(b.Registrants, row)
	}
	for _, p := range d.Participants {
		row, err := ToParticipant(webinarID, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Participants = append(b.Participants, row)
	}
	for _, p := range d.Polls {
		row, err := ToPoll(webinarID, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Polls = append(b.Polls, row)
	}

	seen := make(map[string]bool, len(d.QnA))
	for _, q := range d.QnA {
		row, err := ToQnA(webinarID, q)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		// A repeated question from the same asker is one row.
		if seen[row.ProviderID] {
			continue
		}
		seen[row.ProviderID] = true
		b.QnA = append(b.QnA, row)
	}

	return b, errs
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
