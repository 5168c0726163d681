package zoom

import "webinar_sync/internal/domain"

// pageInfo is the paging envelope shared by every list response.
type pageInfo struct {
	PageCount     int    `json:"page_count"`
	PageNumber    int    `json:"page_number"`
	PageSize      int    `json:"page_size"`
	TotalRecords  int    `json:"total_records"`
	NextPageToken string `json:"next_page_token"`
}

// errorBody is what the provider sends with non-2xx responses.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WebinarSummary is one row of the webinar list.
type WebinarSummary struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	UUID      string `json:"uuid"`
	HostID    string `json:"host_id"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z"`
	Duration  int    `json:"duration" validate:"gte=0"`
	Timezone  string `json:"timezone"`
}

// Webinar is the detail payload of both /webinars/{id} and
// /past_webinars/{id}; fields absent from one of them stay zero.
type Webinar struct {
	ID                int64  `json:"id" validate:"required,gt=0"`
	UUID              string `json:"uuid"`
	HostID            string `json:"host_id"`
	Topic             string `json:"topic"`
	Agenda            string `json:"agenda"`
	Type              int    `json:"type"`
	Status            string `json:"status"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Duration          int    `json:"duration" validate:"gte=0"`
	Timezone          string `json:"timezone"`
	JoinURL           string `json:"join_url"`
	RegistrationURL   string `json:"registration_url"`
	ParticipantsCount int    `json:"participants_count"`
}

type Registrant struct {
	ID         string `json:"id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Status     string `json:"status"`
	JoinURL    string `json:"join_url"`
	CreateTime string `json:"create_time"`

	// Set from the request filter, the provider does not echo them per row.
	OccurrenceID     string `json:"-"`
	TrackingSourceID string `json:"-"`
}

// Participant is one attendance row. After deduplication a participant who
// rejoined appears once with summed Duration and SessionCount > 1.
type Participant struct {
	ID        string `json:"id" validate:"required_without_all=UserID Email"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"user_email" validate:"omitempty,email"`
	JoinTime  string `json:"join_time"`
	LeaveTime string `json:"leave_time"`
	Duration  int64  `json:"duration" validate:"gte=0"`
	Status    string `json:"status"`

	SessionCount  int `json:"-"`
	AnsweredPolls int `json:"-"`
	Questions     int `json:"-"`
}

type PollQuestion struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Answers []string `json:"answers"`
}

type Poll struct {
	ID        string         `json:"id" validate:"required"`
	Title     string         `json:"title"`
	Status    string         `json:"status"`
	Questions []PollQuestion `json:"questions"`

	// Responses is filled from past poll results.
	Responses int `json:"-"`
}

// pollResults is /past_webinars/{uuid}/polls: answers grouped per voter.
type pollResults struct {
	ID        int64       `json:"id"`
	UUID      string      `json:"uuid"`
	Questions []pollVoter `json:"questions"`
}

type pollVoter struct {
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Details []pollAnswer `json:"question_details"`
}

type pollAnswer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	PollingID string `json:"polling_id"`
	DateTime  string `json:"date_time"`
}

// qaResults is /past_webinars/{uuid}/qa: questions grouped per asker.
type qaResults struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Questions []qaAsker `json:"questions"`
}

type qaAsker struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Details []qaDetail `json:"question_details"`
}

type qaDetail struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QnAEntry is one question flattened out of the grouped response.
type QnAEntry struct {
	AskerName  string
	AskerEmail string
	Question   string
	Answer     string
}

type trackingSourcesResponse struct {
	TotalRecords    int                     `json:"total_records"`
	TrackingSources []domain.TrackingSource `json:"tracking_sources"`
}

// WebinarDetail is everything fetched for one queue item.
type WebinarDetail struct {
	Item            domain.QueueItem
	Webinar         Webinar
	Registrants     []Registrant
	RegistrantTotal int
	Participants    []Participant
	Polls           []Poll
	QnA             []QnAEntry
	TrackingSources []domain.TrackingSource
	// Skipped lists optional parts left out, e.g. for a missing scope.
	Skipped []string
}
