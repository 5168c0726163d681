package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type WebinarStatus string

const (
	WebinarStatusUpcoming  WebinarStatus = "upcoming"
	WebinarStatusLive      WebinarStatus = "live"
	WebinarStatusCompleted WebinarStatus = "completed"
	WebinarStatusCancelled WebinarStatus = "cancelled"
)

type TrackingSource struct {
	ID                string `json:"id"`
	SourceName        string `json:"source_name"`
	TrackingURL       string `json:"tracking_url"`
	RegistrationCount int    `json:"registration_count"`
	VisitorCount      int    `json:"visitor_count"`
}

// TrackingSources is stored as JSONB on the webinar row.
type TrackingSources []TrackingSource

func (t TrackingSources) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *TrackingSources) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("scan tracking sources: unsupported type %T", src)
	}
}

type Webinar struct {
	ID                int64           `db:"id"`
	ConnectionID      string          `db:"connection_id"`
	ProviderID        string          `db:"provider_id"`
	ProviderUUID      *string         `db:"provider_uuid"`
	HostID            string          `db:"host_id"`
	Topic             string          `db:"topic"`
	Agenda            *string         `db:"agenda"`
	Type              int             `db:"webinar_type"`
	Status            WebinarStatus   `db:"status"`
	ProviderStatus    *string         `db:"provider_status"`
	StartTime         *time.Time      `db:"start_time"`
	DurationMinutes   int             `db:"duration_minutes"`
	Timezone          *string         `db:"timezone"`
	JoinURL           *string         `db:"join_url"`
	RegistrationURL   *string         `db:"registration_url"`
	RegistrantsTotal  int             `db:"registrants_total"`
	TrackingSources   TrackingSources `db:"tracking_sources"`
	AttendeesCount    int             `db:"attendees_count"`
	AbsenteesCount    int             `db:"absentees_count"`
	TotalDuration     int64           `db:"total_duration_seconds"`
	AverageDuration   float64         `db:"avg_duration_seconds"`
	EngagementScore   float64         `db:"engagement_score"`
	SyncedAt          time.Time       `db:"synced_at"`
}

type Registrant struct {
	ID               int64      `db:"id"`
	WebinarID        int64      `db:"webinar_id"`
	ProviderID       string     `db:"provider_id"`
	Email            string     `db:"email"`
	FirstName        string     `db:"first_name"`
	LastName         *string    `db:"last_name"`
	Status           string     `db:"status"`
	JoinURL          *string    `db:"join_url"`
	TrackingSourceID *string    `db:"tracking_source_id"`
	OccurrenceID     *string    `db:"occurrence_id"`
	RegisteredAt     *time.Time `db:"registered_at"`
}

type Participant struct {
	ID              int64      `db:"id"`
	WebinarID       int64      `db:"webinar_id"`
	ProviderID      string     `db:"provider_id"`
	UserID          *string    `db:"user_id"`
	Name            string     `db:"name"`
	Email           *string    `db:"email"`
	JoinTime        *time.Time `db:"join_time"`
	LeaveTime       *time.Time `db:"leave_time"`
	DurationSeconds int64      `db:"duration_seconds"`
	SessionCount    int        `db:"session_count"`
	AnsweredPolls   int        `db:"answered_polls"`
	AskedQuestions  int        `db:"asked_questions"`
	ChatMessages    int        `db:"chat_messages"`
	HandRaises      int        `db:"hand_raises"`
	EngagementScore float64    `db:"engagement_score"`
}

type Poll struct {
	ID         int64   `db:"id"`
	WebinarID  int64   `db:"webinar_id"`
	ProviderID string  `db:"provider_id"`
	Title      string  `db:"title"`
	Status     *string `db:"status"`
	Questions  int     `db:"question_count"`
	Responses  int     `db:"response_count"`
}

type QnA struct {
	ID         int64      `db:"id"`
	WebinarID  int64      `db:"webinar_id"`
	ProviderID string     `db:"provider_id"`
	AskerName  string     `db:"asker_name"`
	AskerEmail *string    `db:"asker_email"`
	Question   string     `db:"question"`
	Answer     *string    `db:"answer"`
	AskedAt    *time.Time `db:"asked_at"`
}

// EngagementMetrics is recomputed on the webinar row after its children land.
type EngagementMetrics struct {
	RegistrantsCount int
	AttendeesCount   int
	AbsenteesCount   int
	TotalDuration    int64
	AverageDuration  float64
	EngagementScore  float64
}

// ParticipantSummary is the slice of a participant row the aggregator reads.
type ParticipantSummary struct {
	DurationSeconds int64   `db:"duration_seconds"`
	EngagementScore float64 `db:"engagement_score"`
}
