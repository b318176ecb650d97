package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xelami/kouza-api/internal/api/shared"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/study"
	"github.com/xelami/kouza-api/internal/service/review"
)

// SessionHandler handles study session lifecycle API requests.
type SessionHandler struct {
	reviewService review.ReviewService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(reviewService review.ReviewService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        logger.With("component", "session_handler"),
	}
}

// StartSession handles POST /sessions. Starting a session while one is
// already open for the same course and module returns the open session
// rather than creating a duplicate.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	session, err := h.reviewService.StartSession(r.Context(), userID, req.CourseID, req.ModuleID, startTime)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{Session: session})
}

// EndSession handles POST /sessions/{id}/end. The client submits its review
// log; the server replays it through the session aggregator and closes the
// session with the resulting summary. Ending an already-closed session is a
// no-op success, so retried requests cannot double-count study time.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req EndSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	aggregator := study.NewAggregator()
	for _, entry := range req.Reviews {
		if !entry.Outcome.IsValid() {
			HandleAPIError(w, r, domain.ErrInvalidReviewOutcome, "")
			return
		}
		aggregator.Record(entry.CardID, entry.Outcome, entry.TimeSpentSeconds)
	}
	summary := aggregator.Summary()

	session, err := h.reviewService.EndSession(r.Context(), userID, sessionID, summary)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		Session: session,
		Summary: &summary,
	})
}
