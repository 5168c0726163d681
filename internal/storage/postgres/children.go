package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

// ChildStore upserts the rows that hang off a webinar. Every table is keyed
// by (webinar_id, provider_id); a conflict updates the row in place and
// nothing is ever deleted.
type ChildStore struct {
	db *sqlx.DB
}

func NewChildStore(db *sqlx.DB) *ChildStore {
	return &ChildStore{db: db}
}

type upsertSpec struct {
	table   string
	columns []string
}

func (u upsertSpec) query(rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(u.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(u.columns, ", "))
	sb.WriteString(") VALUES ")

	for i := 0; i < rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePlaceholders(&sb, i*len(u.columns), len(u.columns))
	}

	sb.WriteString(" ON CONFLICT (webinar_id, provider_id) DO UPDATE SET ")
	first := true
	for _, c := range u.columns {
		if c == "webinar_id" || c == "provider_id" {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(c)
		sb.WriteString(" = EXCLUDED.")
		sb.WriteString(c)
	}
	return sb.String()
}

var (
	registrantUpsert = upsertSpec{"registrants", []string{
		"webinar_id", "provider_id", "email", "first_name", "last_name", "status",
		"join_url", "tracking_source_id", "occurrence_id", "registered_at",
	}}
	participantUpsert = upsertSpec{"participants", []string{
		"webinar_id", "provider_id", "user_id", "name", "email", "join_time", "leave_time",
		"duration_seconds", "session_count", "answered_polls", "asked_questions",
		"chat_messages", "hand_raises", "engagement_score",
	}}
	pollUpsert = upsertSpec{"polls", []string{
		"webinar_id", "provider_id", "title", "status", "question_count", "response_count",
	}}
	qnaUpsert = upsertSpec{"qna", []string{
		"webinar_id", "provider_id", "asker_name", "asker_email", "question", "answer", "asked_at",
	}}
)

func (s *ChildStore) exec(ctx context.Context, spec upsertSpec, rows int, args []any) error {
	if rows == 0 {
		return nil
	}
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, spec.query(rows), args...)
	return err
}

func (s *ChildStore) UpsertRegistrants(ctx context.Context, rows []domain.Registrant) error {
	args := make([]any, 0, len(rows)*len(registrantUpsert.columns))
	for _, r := range rows {
		args = append(args, r.WebinarID, r.ProviderID, r.Email, r.FirstName, r.LastName, r.Status,
			r.JoinURL, r.TrackingSourceID, r.OccurrenceID, r.RegisteredAt)
	}
	return s.exec(ctx, registrantUpsert, len(rows), args)
}

func (s *ChildStore) UpsertParticipants(ctx context.Context, rows []domain.Participant) error {
	args := make([]any, 0, len(rows)*len(participantUpsert.columns))
	for _, p := range rows {
		args = append(args, p.WebinarID, p.ProviderID, p.UserID, p.Name, p.Email, p.JoinTime, p.LeaveTime,
			p.DurationSeconds, p.SessionCount, p.AnsweredPolls, p.AskedQuestions,
			p.ChatMessages, p.HandRaises, p.EngagementScore)
	}
	return s.exec(ctx, participantUpsert, len(rows), args)
}

func (s *ChildStore) UpsertPolls(ctx context.Context, rows []domain.Poll) error {
	args := make([]any, 0, len(rows)*len(pollUpsert.columns))
	for _, p := range rows {
		args = append(args, p.WebinarID, p.ProviderID, p.Title, p.Status, p.Questions, p.Responses)
	}
	return s.exec(ctx, pollUpsert, len(rows), args)
}

func (s *ChildStore) UpsertQnA(ctx context.Context, rows []domain.QnA) error {
	args := make([]any, 0, len(rows)*len(qnaUpsert.columns))
	for _, q := range rows {
		args = append(args, q.WebinarID, q.ProviderID, q.AskerName, q.AskerEmail, q.Question, q.Answer, q.AskedAt)
	}
	return s.exec(ctx, qnaUpsert, len(rows), args)
}
