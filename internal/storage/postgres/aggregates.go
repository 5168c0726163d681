package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

// RegistrantCounts returns the persisted registrant rows and the total the
// provider reported for the webinar.
func (s *WebinarStore) RegistrantCounts(ctx context.Context, webinarID int64) (persisted, reported int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM registrants r WHERE r.webinar_id = w.id) AS persisted,
			w.registrants_total AS reported
		FROM webinars w
		WHERE w.id = $1`

	var row struct {
		Persisted int `db:"persisted"`
		Reported  int `db:"reported"`
	}
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, webinarID); err != nil {
		return 0, 0, notFound(err)
	}
	return row.Persisted, row.Reported, nil
}

func (s *WebinarStore) ParticipantSummaries(ctx context.Context, webinarID int64) ([]domain.ParticipantSummary, error) {
	var rows []domain.ParticipantSummary
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows,
		`SELECT duration_seconds, engagement_score FROM participants WHERE webinar_id = $1`,
		webinarID,
	)
	return rows, err
}

func (s *WebinarStore) UpdateMetrics(ctx context.Context, webinarID int64, m domain.EngagementMetrics) error {
	query := `
		UPDATE webinars
		SET registrants_total = $2,
			attendees_count = $3,
			absentees_count = $4,
			total_duration_seconds = $5,
			avg_duration_seconds = $6,
			engagement_score = $7
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		webinarID,
		m.RegistrantsCount,
		m.AttendeesCount,
		m.AbsenteesCount,
		m.TotalDuration,
		m.AverageDuration,
		m.EngagementScore,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
