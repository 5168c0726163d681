package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/source/zoom"
)

type TokenSource interface {
	GetValidAccessToken(ctx context.Context, connectionID string) (string, error)
}

type WebinarSource interface {
	ListWebinars(ctx context.Context, connectionID string, window domain.SyncWindow) ([]domain.QueueItem, error)
	FetchDetail(ctx context.Context, connectionID string, item domain.QueueItem) (*zoom.WebinarDetail, error)
}

type SyncRunStore interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	Get(ctx context.Context, runID string) (*domain.SyncRun, error)
	UpdateProgress(ctx context.Context, runID, operation string, percentage int) error
	UpdateCounts(ctx context.Context, runID string, counts domain.QueueCounts) error
	SetStatus(ctx context.Context, runID string, status domain.RunStatus, errMsg *string) error
	MarkResumed(ctx context.Context, runID string) error
}

type QueueStore interface {
	Enqueue(ctx context.Context, runID string, items []domain.QueueItem) (int, error)
	NextPending(ctx context.Context, runID string, limit int) ([]domain.QueueItem, error)
	MarkProcessing(ctx context.Context, itemID int64) (bool, error)
	MarkCompleted(ctx context.Context, itemID int64) error
	MarkFailed(ctx context.Context, itemID int64, reason string) error
	ResetProcessing(ctx context.Context, runID string) (int, error)
	Counts(ctx context.Context, runID string) (domain.QueueCounts, error)
}

type SyncStateStore interface {
	Get(ctx context.Context, runID string) (*domain.SyncState, error)
	Record(ctx context.Context, runID, webinarID string, failed bool) error
}

type WebinarStore interface {
	Upsert(ctx context.Context, w *domain.Webinar) (int64, error)
	RegistrantCounts(ctx context.Context, webinarID int64) (persisted, reported int, err error)
	ParticipantSummaries(ctx context.Context, webinarID int64) ([]domain.ParticipantSummary, error)
	UpdateMetrics(ctx context.Context, webinarID int64, metrics domain.EngagementMetrics) error
}

type ChildStore interface {
	UpsertRegistrants(ctx context.Context, rows []domain.Registrant) error
	UpsertParticipants(ctx context.Context, rows []domain.Participant) error
	UpsertPolls(ctx context.Context, rows []domain.Poll) error
	UpsertQnA(ctx context.Context, rows []domain.QnA) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Reporter interface {
	Status(ctx context.Context, runID, message string, details map[string]any)
	Progress(ctx context.Context, runID, message string, percentage int, details map[string]any)
	Error(ctx context.Context, runID, message string, err error)
}
