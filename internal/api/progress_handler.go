package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/xelami/kouza-api/internal/api/shared"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/service"
)

// ProgressHandler handles progress and quiz score API requests.
type ProgressHandler struct {
	progressService *service.ProgressService
	goalService     *service.GoalService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler with the given
// dependencies.
func NewProgressHandler(
	progressService *service.ProgressService,
	goalService *service.GoalService,
	logger *slog.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		goalService:     goalService,
		validator:       validator.New(),
		logger:          logger.With("component", "progress_handler"),
	}
}

// RecordQuizScore handles POST /quiz/progress. The quiz score overwrites the
// module's mastery score directly; the weighted retention rate is left
// untouched. Goal progress is recomputed afterwards since mastery goals may
// have been affected.
func (h *ProgressHandler) RecordQuizScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var req QuizScoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.progressService.RecordQuizScore(r.Context(), userID, req.CourseID, req.ModuleID, req.Score)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Goal recomputation failures do not fail the request; the score is
	// already recorded.
	if h.goalService != nil {
		if err := h.goalService.RecomputeForUser(r.Context(), userID); err != nil {
			h.logger.Warn("failed to recompute goals after quiz score",
				"error", err, "user_id", userID)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}
