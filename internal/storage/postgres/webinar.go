package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"webinar_sync/internal/domain"
)

type WebinarStore struct {
	db *sqlx.DB
}

func NewWebinarStore(db *sqlx.DB) *WebinarStore {
	return &WebinarStore{db: db}
}

// Upsert writes the webinar keyed by (connection_id, provider_id) and
// returns its row id. Derived metrics are owned by UpdateMetrics and are
// not overwritten here.
func (s *WebinarStore) Upsert(ctx context.Context, w *domain.Webinar) (int64, error) {
	query := `
		INSERT INTO webinars (
			connection_id, provider_id, provider_uuid, host_id, topic, agenda, webinar_type,
			status, provider_status, start_time, duration_minutes, timezone, join_url,
			registration_url, registrants_total, tracking_sources, synced_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (connection_id, provider_id) DO UPDATE SET
			provider_uuid = COALESCE(EXCLUDED.provider_uuid, webinars.provider_uuid),
			host_id = EXCLUDED.host_id,
			topic = EXCLUDED.topic,
			agenda = EXCLUDED.agenda,
			webinar_type = EXCLUDED.webinar_type,
			status = EXCLUDED.status,
			provider_status = EXCLUDED.provider_status,
			start_time = EXCLUDED.start_time,
			duration_minutes = EXCLUDED.duration_minutes,
			timezone = EXCLUDED.timezone,
			join_url = EXCLUDED.join_url,
			registration_url = EXCLUDED.registration_url,
			registrants_total = EXCLUDED.registrants_total,
			tracking_sources = EXCLUDED.tracking_sources,
			synced_at = EXCLUDED.synced_at
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		w.ConnectionID,
		w.ProviderID,
		w.ProviderUUID,
		w.HostID,
		w.Topic,
		w.Agenda,
		w.Type,
		w.Status,
		w.ProviderStatus,
		w.StartTime,
		w.DurationMinutes,
		w.Timezone,
		w.JoinURL,
		w.RegistrationURL,
		w.RegistrantsTotal,
		w.TrackingSources,
		w.SyncedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *WebinarStore) GetByProviderID(ctx context.Context, connectionID, providerID string) (*domain.Webinar, error) {
	var w domain.Webinar
	query := `
		SELECT id, connection_id, provider_id, provider_uuid, host_id, topic, agenda, webinar_type, status,
			provider_status, start_time, duration_minutes, timezone, join_url, registration_url,
			registrants_total, tracking_sources, attendees_count, absentees_count,
			total_duration_seconds, avg_duration_seconds, engagement_score, synced_at
		FROM webinars
		WHERE connection_id = $1 AND provider_id = $2`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &w, query, connectionID, providerID); err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}
