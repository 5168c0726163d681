package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"webinar_sync/internal/domain"
	"webinar_sync/internal/service"
)

const maxBodyBytes = 1 << 20

type startRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type runResponse struct {
	ID               string           `json:"id"`
	ConnectionID     string           `json:"connection_id"`
	Status           domain.RunStatus `json:"status"`
	Active           bool             `json:"active"`
	StartedAt        time.Time        `json:"started_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	TotalItems       int              `json:"total_items"`
	ProcessedItems   int              `json:"processed_items"`
	FailedItems      int              `json:"failed_items"`
	CurrentOperation string           `json:"current_operation"`
	Progress         int              `json:"progress_percentage"`
	ErrorMessage     *string          `json:"error_message,omitempty"`
	WindowStart      time.Time        `json:"window_start"`
	WindowEnd        time.Time        `json:"window_end"`
	Resumes          int              `json:"resumes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func handleError(logger *slog.Logger, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			code := statusCode(err)
			msg := err.Error()
			if code == http.StatusInternalServerError {
				logger.Error("request failed", "path", r.URL.Path, "error", err)
				msg = "internal error"
			}
			writeJSON(w, code, errorResponse{Error: msg, Code: code})
		}
	}
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRunActive), errors.Is(err, service.ErrRunFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) startSync(w http.ResponseWriter, r *http.Request) error {
	connectionID := chi.URLParam(r, "connectionID")

	var req startRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return domain.ValidationError("read request", err)
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return domain.ValidationError("decode request", err)
		}
	}

	window, err := h.parseWindow(req)
	if err != nil {
		return err
	}

	run, err := h.control.Launch(h.base, connectionID, window)
	if err != nil {
		return err
	}

	h.logger.Info("sync launched", "run_id", run.ID, "connection_id", connectionID)
	writeJSON(w, http.StatusAccepted, h.toResponse(run))
	return nil
}

func (h *Handler) resumeSync(w http.ResponseWriter, r *http.Request) error {
	run, err := h.control.LaunchResume(h.base, chi.URLParam(r, "runID"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusAccepted, h.toResponse(run))
	return nil
}

func (h *Handler) stopSync(w http.ResponseWriter, r *http.Request) error {
	runID := chi.URLParam(r, "runID")
	if err := h.control.Stop(r.Context(), runID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

func (h *Handler) getSync(w http.ResponseWriter, r *http.Request) error {
	run, err := h.runs.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, h.toResponse(run))
	return nil
}

// parseWindow accepts dates (2006-01-02) or RFC 3339 timestamps; a missing
// bound falls back to the configured default window.
func (h *Handler) parseWindow(req startRequest) (domain.SyncWindow, error) {
	start, end := h.window(h.now())

	if req.From != "" {
		t, err := parseBound(req.From)
		if err != nil {
			return domain.SyncWindow{}, domain.ValidationError("parse from", err)
		}
		start = t
	}
	if req.To != "" {
		t, err := parseBound(req.To)
		if err != nil {
			return domain.SyncWindow{}, domain.ValidationError("parse to", err)
		}
		end = t
	}
	return domain.SyncWindow{Start: start.UTC(), End: end.UTC()}, nil
}

func parseBound(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a date nor an RFC 3339 time", s)
	}
	return t, nil
}

func (h *Handler) toResponse(run *domain.SyncRun) runResponse {
	return runResponse{
		ID:               run.ID,
		ConnectionID:     run.ConnectionID,
		Status:           run.Status,
		Active:           h.control.Active(run.ID),
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
		TotalItems:       run.TotalItems,
		ProcessedItems:   run.ProcessedItems,
		FailedItems:      run.FailedItems,
		CurrentOperation: run.CurrentOperation,
		Progress:         run.Progress,
		ErrorMessage:     run.ErrorMessage,
		WindowStart:      run.Metadata.Window.Start,
		WindowEnd:        run.Metadata.Window.End,
		Resumes:          run.Metadata.Resumes,
	}
}
