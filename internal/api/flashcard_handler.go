package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/api/shared"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/events"
	"github.com/xelami/kouza-api/internal/service/review"
	"github.com/xelami/kouza-api/internal/store"
	"github.com/xelami/kouza-api/internal/task"
)

// FlashcardHandler handles flashcard-related API requests: manual creation,
// the due queue, per-card reviews, and background generation requests.
type FlashcardHandler struct {
	cardStore     store.FlashcardStore
	reviewService review.ReviewService
	eventEmitter  events.EventEmitter
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler with the given
// dependencies.
func NewFlashcardHandler(
	cardStore store.FlashcardStore,
	reviewService review.ReviewService,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) *FlashcardHandler {
	return &FlashcardHandler{
		cardStore:     cardStore,
		reviewService: reviewService,
		eventEmitter:  eventEmitter,
		validator:     validator.New(),
		logger:        logger.With("component", "flashcard_handler"),
	}
}

// CreateFlashcard handles POST /flashcards.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var req CreateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	card, err := domain.NewFlashcard(userID, req.CourseID, req.ModuleID, req.LessonID, req.Question, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardStore.Create(r.Context(), card); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListDue handles GET /flashcards/due. An optional module_id query parameter
// narrows the queue to one module, and limit caps the result size.
func (h *FlashcardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var moduleID *uuid.UUID
	if raw := r.URL.Query().Get("module_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid module_id")
			return
		}
		moduleID = &id
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	cards, err := h.cardStore.ListDue(r.Context(), userID, moduleID, time.Now().UTC(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// SubmitReview handles PATCH /flashcards/{id}/review. It applies one review
// outcome to the card and returns the rescheduled card plus the requeue
// decision for the client's session queue.
func (h *FlashcardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.reviewService.SubmitReview(r.Context(), userID, cardID, req.Outcome, req.TimeSpentSeconds)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitReviewResponse{
		Card:    result.Card,
		Requeue: result.Requeue,
	})
}

// DeleteFlashcard handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cardStore.GetByID(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if card.UserID != userID {
		HandleAPIError(w, r, review.ErrCardNotOwned, "")
		return
	}

	if err := h.cardStore.Delete(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateFlashcards handles POST /flashcards/generate. The request is
// accepted immediately and a background task produces the cards; generated
// cards appear in the due queue once the task completes.
func (h *FlashcardHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found in request context")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeFlashcardGeneration, task.FlashcardGenerationPayload{
		UserID:   userID,
		CourseID: req.CourseID,
		ModuleID: req.ModuleID,
		LessonID: req.LessonID,
		Content:  req.Content,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create generation request", err)
		return
	}

	if err := h.eventEmitter.EmitEvent(r.Context(), event); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to queue generation request", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateFlashcardsResponse{
		EventID: event.ID,
		Status:  "accepted",
	})
}
