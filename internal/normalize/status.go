package normalize

import (
	"math"
	"strings"
	"time"

	"webinar_sync/internal/domain"
)

var providerStatuses = map[string]domain.WebinarStatus{
	"finished":  domain.WebinarStatusCompleted,
	"started":   domain.WebinarStatusLive,
	"scheduled": domain.WebinarStatusUpcoming,
	"available": domain.WebinarStatusUpcoming,
	"waiting":   domain.WebinarStatusUpcoming,
	"deleted":   domain.WebinarStatusCancelled,
	"cancelled": domain.WebinarStatusCancelled,
}

// InferStatus decides a webinar's status. The list it came from wins, then
// the start time, then the provider's own status string.
func InferStatus(class domain.Classification, providerStatus string, start *time.Time, now time.Time) domain.WebinarStatus {
	if class == domain.ClassificationPast {
		return domain.WebinarStatusCompleted
	}
	if start != nil && start.Before(now) {
		return domain.WebinarStatusCompleted
	}
	if s, ok := providerStatuses[strings.ToLower(strings.TrimSpace(providerStatus))]; ok {
		return s
	}
	return domain.WebinarStatusUpcoming
}

// Engagement is the per-participant input to EngagementScore.
type Engagement struct {
	DurationSeconds int64
	AnsweredPolls   int
	Questions       int
	ChatMessages    int
	HandRaises      int
}

const (
	pointsPerMinute   = 10.0
	maxDurationPoints = 40.0
	pointsPerPoll     = 10.0
	maxPollPoints     = 20.0
	pointsPerQuestion = 10.0
	maxQuestionPoints = 20.0
	pointsPerChat     = 2.0
	maxChatPoints     = 10.0
	pointsPerHand     = 5.0
	maxHandPoints     = 10.0
)

// EngagementScore rates a participant from 0 to 100, rounded to two decimals.
func EngagementScore(e Engagement) float64 {
	score := capped(float64(e.DurationSeconds)/60*pointsPerMinute, maxDurationPoints) +
		capped(float64(e.AnsweredPolls)*pointsPerPoll, maxPollPoints) +
		capped(float64(e.Questions)*pointsPerQuestion, maxQuestionPoints) +
		capped(float64(e.ChatMessages)*pointsPerChat, maxChatPoints) +
		capped(float64(e.HandRaises)*pointsPerHand, maxHandPoints)

	return math.Round(min(max(score, 0), 100)*100) / 100
}

func capped(v, limit float64) float64 {
	return min(max(v, 0), limit)
}

// WebinarEngagement is the mean of the participants' scores.
func WebinarEngagement(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return math.Round(sum/float64(len(scores))*100) / 100
}
