package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the run can no longer change state.
func (s RunStatus) Terminal() bool {
	return s != RunStatusRunning
}

type Classification string

const (
	ClassificationPast     Classification = "past"
	ClassificationUpcoming Classification = "upcoming"
)

type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusFailed     ItemStatus = "failed"
)

// SyncWindow bounds the webinars a run lists: past webinars from Start until
// now, upcoming webinars from now until End.
type SyncWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w SyncWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("sync window requires both start and end")
	}
	if !w.Start.Before(w.End) {
		return fmt.Errorf("sync window start %s is not before end %s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}
	return nil
}

// RunMetadata is stored as JSONB on the sync run.
type RunMetadata struct {
	Window SyncWindow `json:"window"`
	Mode   string     `json:"mode"`
	// Resumes counts how many times the run was picked up again.
	Resumes int `json:"resumes,omitempty"`
}

func (m RunMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *RunMetadata) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan run metadata: unsupported type %T", src)
	}
	return json.Unmarshal(data, m)
}

type SyncRun struct {
	ID               string      `db:"id"`
	ConnectionID     string      `db:"connection_id"`
	Status           RunStatus   `db:"status"`
	StartedAt        time.Time   `db:"started_at"`
	CompletedAt      *time.Time  `db:"completed_at"`
	TotalItems       int         `db:"total_items"`
	ProcessedItems   int         `db:"processed_items"`
	FailedItems      int         `db:"failed_items"`
	CurrentOperation string      `db:"current_operation"`
	Progress         int         `db:"progress_percentage"`
	ErrorMessage     *string     `db:"error_message"`
	Metadata         RunMetadata `db:"metadata"`
}

type QueueItem struct {
	ID             int64          `db:"id"`
	RunID          string         `db:"run_id"`
	WebinarID      string         `db:"webinar_id"`
	WebinarUUID    *string        `db:"webinar_uuid"`
	Topic          string         `db:"topic"`
	StartTime      *time.Time     `db:"start_time"`
	Classification Classification `db:"classification"`
	Status         ItemStatus     `db:"status"`
	Priority       int            `db:"priority"`
	RetryCount     int            `db:"retry_count"`
	ErrorMessage   *string        `db:"error_message"`
}

// ProviderKey returns the identifier past-webinar endpoints prefer: the
// instance UUID when known, the numeric id otherwise.
func (q QueueItem) ProviderKey() string {
	if q.WebinarUUID != nil && *q.WebinarUUID != "" {
		return *q.WebinarUUID
	}
	return q.WebinarID
}

// QueueCounts holds per-status totals for one run.
type QueueCounts struct {
	Pending    int `db:"pending"`
	Processing int `db:"processing"`
	Completed  int `db:"completed"`
	Failed     int `db:"failed"`
}

func (c QueueCounts) Total() int {
	return c.Pending + c.Processing + c.Completed + c.Failed
}

// SyncState tracks resume progress for a run alongside the queue.
type SyncState struct {
	ID              int64     `db:"id"`
	RunID           string    `db:"run_id"`
	ProcessedCount  int64     `db:"processed_count"`
	FailedCount     int64     `db:"failed_count"`
	LastProcessedID *string   `db:"last_processed_id"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// SyncStats holds statistics about a finished run.
type SyncStats struct {
	RunID     string
	Listed    int
	Queued    int
	Completed int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

type EventType string

const (
	EventStatus   EventType = "status"
	EventProgress EventType = "progress"
	EventError    EventType = "error"
)

// ProgressEvent is what observers of a run receive.
type ProgressEvent struct {
	Type       EventType      `json:"type"`
	RunID      string         `json:"run_id"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Percentage int            `json:"percentage"`
	Timestamp  time.Time      `json:"timestamp"`
}
