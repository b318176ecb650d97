package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/xelami/kouza-api/internal/api/shared"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/service"
)

// GoalHandler handles learning goal API requests.
type GoalHandler struct {
	goalService *service.GoalService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewGoalHandler creates a new GoalHandler with the given dependencies.
func NewGoalHandler(goalService *service.GoalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		validator:   validator.New(),
		logger:      logger.With("component", "goal_handler"),
	}
}

// CreateGoal handles POST /goals.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var req CreateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	goal, err := h.goalService.CreateGoal(
		r.Context(), userID, req.Title, domain.GoalKind(req.Kind),
		req.CourseID, req.ModuleID, req.TargetValue, req.Deadline,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// ListGoals handles GET /goals.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	goals, err := h.goalService.ListGoals(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if goals == nil {
		goals = []*domain.LearningGoal{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// GetGoal handles GET /goals/{id}.
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoal(r.Context(), userID, goalID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// UpdateGoal handles PUT /goals/{id}. Only the fields present in the request
// are changed.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	goal, err := h.goalService.UpdateGoal(r.Context(), userID, goalID, service.GoalUpdate{
		Title:       req.Title,
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /goals/{id}.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(r.Context(), userID, goalID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
