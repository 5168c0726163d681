package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/normalize"
)

// Aggregator recomputes a webinar's derived counts from its stored children.
// It must run after the children of that webinar are written.
type Aggregator struct {
	webinars WebinarStore
	logger   *slog.Logger
}

func NewAggregator(webinars WebinarStore, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		webinars: webinars,
		logger:   logger.With("component", "aggregator"),
	}
}

func (a *Aggregator) Recompute(ctx context.Context, webinarID int64) (domain.EngagementMetrics, error) {
	persisted, reported, err := a.webinars.RegistrantCounts(ctx, webinarID)
	if err != nil {
		return domain.EngagementMetrics{}, fmt.Errorf("count registrants: %w", err)
	}

	participants, err := a.webinars.ParticipantSummaries(ctx, webinarID)
	if err != nil {
		return domain.EngagementMetrics{}, fmt.Errorf("load participants: %w", err)
	}

	m := Compute(max(persisted, reported), participants)
	if err := a.webinars.UpdateMetrics(ctx, webinarID, m); err != nil {
		return domain.EngagementMetrics{}, fmt.Errorf("update metrics: %w", err)
	}

	a.logger.Debug("recomputed webinar metrics",
		"webinar_id", webinarID,
		"registrants", m.RegistrantsCount,
		"attendees", m.AttendeesCount,
		"absentees", m.AbsenteesCount,
	)
	return m, nil
}

// Compute derives the webinar metrics. Attendees are the deduplicated
// participant rows; absentees never go below zero.
func Compute(registrants int, participants []domain.ParticipantSummary) domain.EngagementMetrics {
	m := domain.EngagementMetrics{
		RegistrantsCount: registrants,
		AttendeesCount:   len(participants),
	}
	m.AbsenteesCount = max(0, registrants-m.AttendeesCount)

	scores := make([]float64, 0, len(participants))
	for _, p := range participants {
		m.TotalDuration += p.DurationSeconds
		scores = append(scores, p.EngagementScore)
	}
	if m.AttendeesCount > 0 {
		m.AverageDuration = math.Round(float64(m.TotalDuration)/float64(m.AttendeesCount)*100) / 100
	}
	m.EngagementScore = normalize.WebinarEngagement(scores)
	return m
}
