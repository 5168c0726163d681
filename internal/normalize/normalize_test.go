package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/source/zoom"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestInferStatus(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		class    domain.Classification
		provider string
		start    *time.Time
		want     domain.WebinarStatus
	}{
		{"past list wins over provider status", domain.ClassificationPast, "scheduled", &future, domain.WebinarStatusCompleted},
		{"stale upcoming entry is completed", domain.ClassificationUpcoming, "waiting", &past, domain.WebinarStatusCompleted},
		{"started is live", domain.ClassificationUpcoming, "started", &future, domain.WebinarStatusLive},
		{"finished is completed", domain.ClassificationUpcoming, "finished", &future, domain.WebinarStatusCompleted},
		{"available is upcoming", domain.ClassificationUpcoming, "available", &future, domain.WebinarStatusUpcoming},
		{"deleted is cancelled", domain.ClassificationUpcoming, "deleted", &future, domain.WebinarStatusCancelled},
		{"case and spaces are ignored", domain.ClassificationUpcoming, " Cancelled ", &future, domain.WebinarStatusCancelled},
		{"unknown falls back to upcoming", domain.ClassificationUpcoming, "rehearsal", &future, domain.WebinarStatusUpcoming},
		{"no start time uses lookup", domain.ClassificationUpcoming, "started", nil, domain.WebinarStatusLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferStatus(tt.class, tt.provider, tt.start, now))
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name string
		in   Engagement
		want float64
	}{
		{"nothing", Engagement{}, 0},
		{"ninety seconds", Engagement{DurationSeconds: 90}, 15},
		{"duration caps at forty", Engagement{DurationSeconds: 3600}, 40},
		{"one poll one question", Engagement{AnsweredPolls: 1, Questions: 1}, 20},
		{"polls cap at twenty", Engagement{AnsweredPolls: 7}, 20},
		{"chat and hands", Engagement{ChatMessages: 3, HandRaises: 1}, 11},
		{"everything maxed", Engagement{DurationSeconds: 7200, AnsweredPolls: 9, Questions: 9, ChatMessages: 99, HandRaises: 9}, 100},
		{"negative input clamps", Engagement{DurationSeconds: -600, AnsweredPolls: -3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EngagementScore(tt.in), 0.001)
		})
	}
}

func TestEngagementScore_MonotonicInDuration(t *testing.T) {
	prev := -1.0
	for seconds := int64(0); seconds <= 600; seconds += 7 {
		score := EngagementScore(Engagement{DurationSeconds: seconds, Questions: 1})
		assert.GreaterOrEqual(t, score, prev, "seconds=%d", seconds)
		assert.LessOrEqual(t, score, 100.0)
		prev = score
	}
	assert.InDelta(t, 50, prev, 0.001)
}

func TestWebinarEngagement(t *testing.T) {
	assert.Equal(t, 0.0, WebinarEngagement(nil))
	assert.InDelta(t, 33.33, WebinarEngagement([]float64{0, 50, 50}), 0.001)
}

func detail() *zoom.WebinarDetail {
	return &zoom.WebinarDetail{
		Item: domain.QueueItem{
			WebinarID:      "42",
			Topic:          "From list",
			Classification: domain.ClassificationUpcoming,
		},
		Webinar: zoom.Webinar{
			ID:        42,
			UUID:      "abc==",
			Topic:     "Quarterly review",
			Status:    "waiting",
			StartTime: "2026-03-10T15:00:00Z",
			Duration:  45,
			Timezone:  "Europe/Berlin",
		},
		RegistrantTotal: 120,
		TrackingSources: []domain.TrackingSource{{ID: "t1", SourceName: "newsletter"}},
	}
}

func TestToWebinar(t *testing.T) {
	w, err := ToWebinar("conn-1", detail(), now)
	require.NoError(t, err)

	assert.Equal(t, "conn-1", w.ConnectionID)
	assert.Equal(t, "42", w.ProviderID)
	assert.Equal(t, "abc==", *w.ProviderUUID)
	assert.Equal(t, "Quarterly review", w.Topic)
	assert.Equal(t, domain.WebinarStatusCompleted, w.Status, "start time is in the past")
	assert.Equal(t, "waiting", *w.ProviderStatus)
	assert.Equal(t, 120, w.RegistrantsTotal)
	assert.Len(t, w.TrackingSources, 1)
	assert.Nil(t, w.Agenda)
	assert.Equal(t, now, w.SyncedAt)
	require.NotNil(t, w.StartTime)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), *w.StartTime)
}

func TestToWebinar_FallsBackToQueueItem(t *testing.T) {
	d := detail()
	d.Webinar.Topic = ""
	d.Webinar.StartTime = ""
	d.Item.StartTime = ptr(now.Add(24 * time.Hour))

	w, err := ToWebinar("conn-1", d, now)
	require.NoError(t, err)

	assert.Equal(t, "From list", w.Topic)
	assert.Equal(t, domain.WebinarStatusUpcoming, w.Status)
}

func TestToWebinar_RejectsBadPayload(t *testing.T) {
	d := detail()
	d.Webinar.StartTime = "yesterday"
	_, err := ToWebinar("conn-1", d, now)
	assert.ErrorIs(t, err, domain.ErrValidation)

	d = detail()
	d.Webinar.ID = 0
	_, err = ToWebinar("conn-1", d, now)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestToParticipant(t *testing.T) {
	p, err := ToParticipant(7, zoom.Participant{
		ID:            "a",
		Name:          "Ann",
		Email:         " Ann@Example.com",
		JoinTime:      "2026-03-01T10:05:00Z",
		Duration:      180,
		SessionCount:  2,
		AnsweredPolls: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.WebinarID)
	assert.Equal(t, "email:ann@example.com", p.ProviderID)
	assert.Equal(t, "ann@example.com", *p.Email)
	assert.Nil(t, p.UserID)
	assert.Nil(t, p.LeaveTime)
	assert.Equal(t, 2, p.SessionCount)
	assert.InDelta(t, 40, p.EngagementScore, 0.001)
}

func TestToQnA_StableID(t *testing.T) {
	a, err := ToQnA(1, zoom.QnAEntry{AskerName: "Ann", AskerEmail: "ANN@example.com", Question: " Will slides be shared? "})
	require.NoError(t, err)
	b, err := ToQnA(1, zoom.QnAEntry{AskerName: "Ann", AskerEmail: "ann@example.com", Question: "Will slides be shared?"})
	require.NoError(t, err)
	c, err := ToQnA(1, zoom.QnAEntry{AskerName: "Bob", AskerEmail: "bob@example.com", Question: "Will slides be shared?"})
	require.NoError(t, err)

	assert.Equal(t, a.ProviderID, b.ProviderID)
	assert.NotEqual(t, a.ProviderID, c.ProviderID)
	assert.Len(t, a.ProviderID, 32)
	assert.Nil(t, a.Answer)
}

func TestChildren_QuarantinesInvalidRows(t *testing.T) {
	d := detail()
	d.Registrants = []zoom.Registrant{
		{ID: "r1", Email: "a@example.com", Status: "approved"},
		{ID: "r2", Email: "b@example.com", CreateTime: "not a time"},
	}
	d.Participants = []zoom.Participant{{ID: "p1", Duration: 60}, {}}
	d.Polls = []zoom.Poll{{ID: "poll-1", Questions: []zoom.PollQuestion{{Name: "q"}}}}
	d.QnA = []zoom.QnAEntry{
		{AskerName: "Ann", Question: "Hi?"},
		{AskerName: "Ann", Question: "Hi?"},
		{AskerName: "Bob", Question: "  "},
	}

	b, errs := Children(9, d)

	assert.Len(t, b.Registrants, 1)
	assert.Len(t, b.Participants, 1)
	require.Len(t, b.Polls, 1)
	assert.Equal(t, 1, b.Polls[0].Questions)
	assert.Len(t, b.QnA, 1)
	assert.Equal(t, 4, b.Len())

	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestChildren_RepeatedRegistrantIsOneRow(t *testing.T) {
	d := detail()
	d.Registrants = []zoom.Registrant{
		{ID: "r1", Email: "a@example.com", Status: "pending"},
		{ID: "r2", Email: "b@example.com", Status: "approved"},
		{ID: "r1", Email: "a@example.com", Status: "approved"},
	}

	b, errs := Children(9, d)

	require.Empty(t, errs)
	require.Len(t, b.Registrants, 2)
	assert.Equal(t, "r1", b.Registrants[0].ProviderID)
	assert.Equal(t, "approved", b.Registrants[0].Status)
	assert.Equal(t, "r2", b.Registrants[1].ProviderID)
}
