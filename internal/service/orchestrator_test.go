package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"webinar_sync/internal/config"
	"webinar_sync/internal/domain"
	"webinar_sync/internal/service/mocks"
	"webinar_sync/internal/source/zoom"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	tokens    *mocks.MockTokenSource
	source    *mocks.MockWebinarSource
	runs      *mocks.MockSyncRunStore
	queue     *mocks.MockQueueStore
	state     *mocks.MockSyncStateStore
	webinars  *mocks.MockWebinarStore
	children  *mocks.MockChildStore
	txManager *mocks.MockTransactionManager
	reporter  *mocks.MockReporter

	orch   *Orchestrator
	now    time.Time
	window domain.SyncWindow
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.tokens = mocks.NewMockTokenSource(s.ctrl)
	s.source = mocks.NewMockWebinarSource(s.ctrl)
	s.runs = mocks.NewMockSyncRunStore(s.ctrl)
	s.queue = mocks.NewMockQueueStore(s.ctrl)
	s.state = mocks.NewMockSyncStateStore(s.ctrl)
	s.webinars = mocks.NewMockWebinarStore(s.ctrl)
	s.children = mocks.NewMockChildStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.reporter = mocks.NewMockReporter(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s.window = domain.SyncWindow{
		Start: s.now.AddDate(0, 0, -30),
		End:   s.now.AddDate(0, 0, 30),
	}

	s.orch = NewOrchestrator(
		s.tokens,
		s.source,
		s.runs,
		s.queue,
		s.state,
		s.txManager,
		NewWriter(s.webinars, s.children, s.txManager, 10, logger),
		NewAggregator(s.webinars, logger),
		s.reporter,
		logger,
		config.SyncConfig{Concurrency: 1, BatchSize: 10},
	)
	s.orch.now = func() time.Time { return s.now }
	s.orch.newID = func() string { return "run-1" }

	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
	s.reporter.EXPECT().Status(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.reporter.EXPECT().Progress(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.runs.EXPECT().UpdateCounts(gomock.Any(), "run-1", gomock.Any()).Return(nil).AnyTimes()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func queueItem(id int64, webinarID string) domain.QueueItem {
	return domain.QueueItem{
		ID:             id,
		RunID:          "run-1",
		WebinarID:      webinarID,
		Topic:          "Webinar " + webinarID,
		Classification: domain.ClassificationPast,
		Status:         domain.ItemStatusPending,
	}
}

func detailFor(item domain.QueueItem, providerID int64) *zoom.WebinarDetail {
	return &zoom.WebinarDetail{
		Item: item,
		Webinar: zoom.Webinar{
			ID:        providerID,
			Topic:     item.Topic,
			StartTime: "2026-01-10T15:00:00Z",
			Duration:  60,
		},
	}
}

// expectSynced sets up a webinar without children going through every write.
func (s *OrchestratorTestSuite) expectSynced(item domain.QueueItem, providerID, webinarID int64) {
	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", item).Return(detailFor(item, providerID), nil)
	s.webinars.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Webinar) (int64, error) {
			s.Equal(item.WebinarID, w.ProviderID)
			s.Equal(domain.WebinarStatusCompleted, w.Status)
			return webinarID, nil
		},
	)
	s.webinars.EXPECT().RegistrantCounts(gomock.Any(), webinarID).Return(0, 0, nil)
	s.webinars.EXPECT().ParticipantSummaries(gomock.Any(), webinarID).Return(nil, nil)
	s.webinars.EXPECT().UpdateMetrics(gomock.Any(), webinarID, domain.EngagementMetrics{}).Return(nil)
	s.queue.EXPECT().MarkCompleted(gomock.Any(), item.ID).Return(nil)
	s.state.EXPECT().Record(gomock.Any(), "run-1", item.WebinarID, false).Return(nil)
}

func (s *OrchestratorTestSuite) expectCreate() {
	s.runs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, run *domain.SyncRun) error {
			s.Equal("run-1", run.ID)
			s.Equal("conn-1", run.ConnectionID)
			s.Equal(domain.RunStatusRunning, run.Status)
			s.Equal(s.window, run.Metadata.Window)
			return nil
		},
	)
}

func (s *OrchestratorTestSuite) expectFinal(status domain.RunStatus) {
	s.runs.EXPECT().Get(gomock.Any(), "run-1").Return(&domain.SyncRun{
		ID:           "run-1",
		ConnectionID: "conn-1",
		Status:       status,
	}, nil)
}

func (s *OrchestratorTestSuite) TestStart_SyncsEveryQueuedWebinar() {
	ctx := context.Background()
	first := queueItem(1, "1001")
	second := queueItem(2, "1002")
	items := []domain.QueueItem{first, second}

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return(items, nil)
	s.queue.EXPECT().Enqueue(gomock.Any(), "run-1", items).Return(2, nil)

	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 2}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{first}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{second}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(true, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(2)).Return(true, nil)

	// The first webinar carries children; the second has none.
	detail := detailFor(first, 1001)
	detail.Registrants = []zoom.Registrant{{ID: "r1", Email: "Ann@Example.com", FirstName: "Ann"}}
	detail.RegistrantTotal = 4
	detail.Participants = []zoom.Participant{{ID: "p1", Name: "Ann", Email: "ann@example.com", Duration: 600}}
	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", first).Return(detail, nil)
	s.webinars.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(int64(11), nil)
	s.children.EXPECT().UpsertRegistrants(gomock.Any(), gomock.Len(1)).Return(nil)
	s.children.EXPECT().UpsertParticipants(gomock.Any(), gomock.Len(1)).Return(nil)
	s.webinars.EXPECT().RegistrantCounts(gomock.Any(), int64(11)).Return(1, 4, nil)
	s.webinars.EXPECT().ParticipantSummaries(gomock.Any(), int64(11)).Return([]domain.ParticipantSummary{
		{DurationSeconds: 600, EngagementScore: 40},
	}, nil)
	s.webinars.EXPECT().UpdateMetrics(gomock.Any(), int64(11), domain.EngagementMetrics{
		RegistrantsCount: 4,
		AttendeesCount:   1,
		AbsenteesCount:   3,
		TotalDuration:    600,
		AverageDuration:  600,
		EngagementScore:  40,
	}).Return(nil)
	s.queue.EXPECT().MarkCompleted(gomock.Any(), int64(1)).Return(nil)
	s.state.EXPECT().Record(gomock.Any(), "run-1", "1001", false).Return(nil)

	s.expectSynced(second, 1002, 12)

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Completed: 2}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	run, err := s.orch.Start(ctx, "conn-1", s.window)

	s.Require().NoError(err)
	s.Equal(domain.RunStatusCompleted, run.Status)
	s.False(s.orch.Active("run-1"))
}

func (s *OrchestratorTestSuite) TestStart_ItemFailureDoesNotStopRun() {
	ctx := context.Background()
	bad := queueItem(1, "1001")
	good := queueItem(2, "1002")
	items := []domain.QueueItem{bad, good}

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return(items, nil)
	s.queue.EXPECT().Enqueue(gomock.Any(), "run-1", items).Return(2, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 2}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{bad}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{good}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(true, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(2)).Return(true, nil)

	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", bad).
		Return(nil, domain.TransportError("get webinar", errors.New("502 bad gateway")))
	s.queue.EXPECT().MarkFailed(gomock.Any(), int64(1), gomock.Any()).Return(nil)
	s.state.EXPECT().Record(gomock.Any(), "run-1", "1001", true).Return(nil)
	s.reporter.EXPECT().Error(gomock.Any(), "run-1", "webinar 1001 failed", gomock.Any())

	s.expectSynced(good, 1002, 12)

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Completed: 1, Failed: 1}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	run, err := s.orch.Start(ctx, "conn-1", s.window)

	s.Require().NoError(err)
	s.Equal(domain.RunStatusCompleted, run.Status)
}

func (s *OrchestratorTestSuite) TestStart_RejectedChildRowsFailTheItem() {
	ctx := context.Background()
	item := queueItem(1, "1001")

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return([]domain.QueueItem{item}, nil)
	s.queue.EXPECT().Enqueue(gomock.Any(), "run-1", gomock.Any()).Return(1, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 1}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{item}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(true, nil)

	detail := detailFor(item, 1001)
	detail.Polls = []zoom.Poll{{ID: "poll-1", Title: "Q1"}}
	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", item).Return(detail, nil)
	s.webinars.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(int64(11), nil)

	// Chunk fails, then the single row fails on its own.
	s.children.EXPECT().UpsertPolls(gomock.Any(), gomock.Any()).Return(errors.New("value too long")).Times(2)

	// Metrics are still recomputed from what landed.
	s.webinars.EXPECT().RegistrantCounts(gomock.Any(), int64(11)).Return(0, 0, nil)
	s.webinars.EXPECT().ParticipantSummaries(gomock.Any(), int64(11)).Return(nil, nil)
	s.webinars.EXPECT().UpdateMetrics(gomock.Any(), int64(11), gomock.Any()).Return(nil)

	s.queue.EXPECT().MarkFailed(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, reason string) error {
			s.Contains(reason, "1 poll")
			return nil
		},
	)
	s.state.EXPECT().Record(gomock.Any(), "run-1", "1001", true).Return(nil)
	s.reporter.EXPECT().Error(gomock.Any(), "run-1", "webinar 1001 failed", gomock.Any()).Do(
		func(_ context.Context, _, _ string, err error) {
			s.ErrorIs(err, domain.ErrItem)
		},
	)

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Failed: 1}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	_, err := s.orch.Start(ctx, "conn-1", s.window)
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestStart_AuthErrorAbortsRun() {
	ctx := context.Background()
	item := queueItem(1, "1001")

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return([]domain.QueueItem{item}, nil)
	s.queue.EXPECT().Enqueue(gomock.Any(), "run-1", gomock.Any()).Return(1, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 1}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{item}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil).AnyTimes()
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(true, nil)

	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", item).
		Return(nil, domain.AuthError("refresh token", errors.New("invalid_grant")))

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(1, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 1}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusFailed, gomock.Not(gomock.Nil())).Return(nil)
	s.reporter.EXPECT().Error(gomock.Any(), "run-1", "sync run failed", gomock.Any())
	s.expectFinal(domain.RunStatusFailed)

	run, err := s.orch.Start(ctx, "conn-1", s.window)

	s.ErrorIs(err, domain.ErrAuth)
	s.Require().NotNil(run)
	s.Equal(domain.RunStatusFailed, run.Status)
}

func (s *OrchestratorTestSuite) TestStart_ListFailureLeavesNoQueue() {
	ctx := context.Background()

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).
		Return(nil, domain.NewError(domain.ErrPagination, "list webinars", errors.New("page budget exceeded")))

	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusFailed, gomock.Not(gomock.Nil())).Return(nil)
	s.reporter.EXPECT().Error(gomock.Any(), "run-1", "sync run failed", gomock.Any())
	s.expectFinal(domain.RunStatusFailed)

	_, err := s.orch.Start(ctx, "conn-1", s.window)

	s.ErrorIs(err, domain.ErrPagination)
}

func (s *OrchestratorTestSuite) TestStart_TokenFailureFailsBeforeListing() {
	ctx := context.Background()

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").
		Return("", domain.AuthError("refresh token", errors.New("invalid_grant")))

	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusFailed, gomock.Not(gomock.Nil())).Return(nil)
	s.reporter.EXPECT().Error(gomock.Any(), "run-1", "sync run failed", gomock.Any())
	s.expectFinal(domain.RunStatusFailed)

	_, err := s.orch.Start(ctx, "conn-1", s.window)

	s.ErrorIs(err, domain.ErrAuth)
}

func (s *OrchestratorTestSuite) TestStart_RejectsInvalidWindow() {
	_, err := s.orch.Start(context.Background(), "conn-1", domain.SyncWindow{
		Start: s.now,
		End:   s.now.AddDate(0, 0, -1),
	})

	s.ErrorIs(err, domain.ErrValidation)
}

func (s *OrchestratorTestSuite) TestStart_RequiresConnection() {
	_, err := s.orch.Start(context.Background(), "", s.window)

	s.ErrorIs(err, domain.ErrValidation)
}

func (s *OrchestratorTestSuite) TestStop_LeavesRemainingItemsQueued() {
	ctx := context.Background()
	first := queueItem(1, "1001")
	second := queueItem(2, "1002")
	items := []domain.QueueItem{first, second}

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return(items, nil)
	s.queue.EXPECT().Enqueue(gomock.Any(), "run-1", items).Return(2, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 2}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(items, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(true, nil)
	// Whether the second item is claimed depends on when the stop lands;
	// either way it is never synced.
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(2)).Return(true, nil).MaxTimes(1)

	s.source.EXPECT().FetchDetail(gomock.Any(), "conn-1", first).DoAndReturn(
		func(ctx context.Context, _ string, item domain.QueueItem) (*zoom.WebinarDetail, error) {
			s.NoError(s.orch.Stop(ctx, "run-1"))
			return detailFor(item, 1001), nil
		},
	)
	s.webinars.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(int64(11), nil)
	s.webinars.EXPECT().RegistrantCounts(gomock.Any(), int64(11)).Return(0, 0, nil)
	s.webinars.EXPECT().ParticipantSummaries(gomock.Any(), int64(11)).Return(nil, nil)
	s.webinars.EXPECT().UpdateMetrics(gomock.Any(), int64(11), gomock.Any()).Return(nil)
	s.queue.EXPECT().MarkCompleted(gomock.Any(), int64(1)).Return(nil)
	s.state.EXPECT().Record(gomock.Any(), "run-1", "1001", false).Return(nil)

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(1, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 1, Completed: 1}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCancelled, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCancelled)

	run, err := s.orch.Start(ctx, "conn-1", s.window)

	s.Require().NoError(err)
	s.Equal(domain.RunStatusCancelled, run.Status)
}

func (s *OrchestratorTestSuite) TestStop_CancelsRunNotDrivenHere() {
	ctx := context.Background()

	s.runs.EXPECT().Get(ctx, "run-9").Return(&domain.SyncRun{ID: "run-9", Status: domain.RunStatusRunning}, nil)
	s.runs.EXPECT().SetStatus(ctx, "run-9", domain.RunStatusCancelled, gomock.Nil()).Return(nil)

	s.NoError(s.orch.Stop(ctx, "run-9"))
}

func (s *OrchestratorTestSuite) TestStop_IgnoresFinishedRun() {
	ctx := context.Background()

	s.runs.EXPECT().Get(ctx, "run-9").Return(&domain.SyncRun{ID: "run-9", Status: domain.RunStatusCompleted}, nil)

	s.NoError(s.orch.Stop(ctx, "run-9"))
}

func (s *OrchestratorTestSuite) TestResume_ProcessesOnlyPendingItems() {
	ctx := context.Background()
	item := queueItem(3, "1003")

	s.runs.EXPECT().Get(gomock.Any(), "run-1").Return(&domain.SyncRun{
		ID:           "run-1",
		ConnectionID: "conn-1",
		Status:       domain.RunStatusFailed,
		Metadata:     domain.RunMetadata{Window: s.window, Mode: "full"},
	}, nil)
	s.runs.EXPECT().MarkResumed(gomock.Any(), "run-1").Return(nil)
	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(1, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Pending: 1, Completed: 2}, nil).Times(2)

	// No listing: the queue already exists.
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return([]domain.QueueItem{item}, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)
	s.queue.EXPECT().MarkProcessing(gomock.Any(), int64(3)).Return(true, nil)
	s.expectSynced(item, 1003, 13)

	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{Completed: 3}, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	run, err := s.orch.Resume(ctx, "run-1")

	s.Require().NoError(err)
	s.Equal(domain.RunStatusCompleted, run.Status)
}

func (s *OrchestratorTestSuite) TestResume_RelistsRunWithoutQueue() {
	ctx := context.Background()

	s.runs.EXPECT().Get(gomock.Any(), "run-1").Return(&domain.SyncRun{
		ID:           "run-1",
		ConnectionID: "conn-1",
		Status:       domain.RunStatusFailed,
		Metadata:     domain.RunMetadata{Window: s.window, Mode: "full"},
	}, nil)
	s.runs.EXPECT().MarkResumed(gomock.Any(), "run-1").Return(nil)
	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil).Times(2)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{}, nil).Times(3)

	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return(nil, nil)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)

	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	_, err := s.orch.Resume(ctx, "run-1")
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestResume_RejectsCompletedRun() {
	s.runs.EXPECT().Get(gomock.Any(), "run-1").Return(&domain.SyncRun{ID: "run-1", Status: domain.RunStatusCompleted}, nil)

	_, err := s.orch.Resume(context.Background(), "run-1")

	s.ErrorIs(err, ErrRunFinished)
}

func (s *OrchestratorTestSuite) TestResume_RejectsActiveRun() {
	_, ok := s.orch.track("run-1")
	s.Require().True(ok)
	defer s.orch.release("run-1")

	s.runs.EXPECT().Get(gomock.Any(), "run-1").Return(&domain.SyncRun{ID: "run-1", Status: domain.RunStatusRunning}, nil)

	_, err := s.orch.Resume(context.Background(), "run-1")

	s.ErrorIs(err, ErrRunActive)
}

func (s *OrchestratorTestSuite) TestLaunch_RunsInBackground() {
	ctx := context.Background()

	s.expectCreate()
	s.tokens.EXPECT().GetValidAccessToken(gomock.Any(), "conn-1").Return("access", nil)
	s.source.EXPECT().ListWebinars(gomock.Any(), "conn-1", s.window).Return(nil, nil)
	s.queue.EXPECT().Counts(gomock.Any(), "run-1").Return(domain.QueueCounts{}, nil).Times(2)
	s.queue.EXPECT().NextPending(gomock.Any(), "run-1", 1).Return(nil, nil)
	s.queue.EXPECT().ResetProcessing(gomock.Any(), "run-1").Return(0, nil)
	s.runs.EXPECT().SetStatus(gomock.Any(), "run-1", domain.RunStatusCompleted, gomock.Nil()).Return(nil)
	s.expectFinal(domain.RunStatusCompleted)

	run, err := s.orch.Launch(ctx, "conn-1", s.window)
	s.Require().NoError(err)
	s.Equal(domain.RunStatusRunning, run.Status)

	s.orch.Wait()
	s.False(s.orch.Active("run-1"))
}

func (s *OrchestratorTestSuite) TestPercentage() {
	s.Equal(100, percentage(0, 0))
	s.Equal(50, percentage(1, 2))
	s.Equal(33, percentage(1, 3))
	s.Equal(100, percentage(5, 4))
}
