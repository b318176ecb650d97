package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/srs"
	"github.com/xelami/kouza-api/internal/domain/study"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StartSessionRequest defines the payload for opening a study session.
// StartTime is optional; the server clock is used when omitted.
type StartSessionRequest struct {
	CourseID  uuid.UUID  `json:"course_id" validate:"required"`
	ModuleID  uuid.UUID  `json:"module_id" validate:"required"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// ReviewLogEntry is one client-side review event replayed when a session
// ends, so the server can rebuild the session aggregate.
type ReviewLogEntry struct {
	CardID           uuid.UUID            `json:"card_id"            validate:"required"`
	Outcome          domain.ReviewOutcome `json:"outcome"            validate:"required"`
	TimeSpentSeconds int                  `json:"time_spent_seconds" validate:"gte=0"`
}

// EndSessionRequest defines the payload for closing a study session. The
// review log is replayed server-side to rebuild the session aggregate; the
// close time is always the server clock.
type EndSessionRequest struct {
	Reviews []ReviewLogEntry `json:"reviews" validate:"dive"`
}

// SessionResponse is the serialized study session returned by the session
// endpoints. A closed session includes the computed summary.
type SessionResponse struct {
	Session *domain.StudySession  `json:"session"`
	Summary *study.SessionSummary `json:"summary,omitempty"`
}

// SubmitReviewRequest defines the payload for reviewing a flashcard.
type SubmitReviewRequest struct {
	Outcome          domain.ReviewOutcome `json:"outcome"            validate:"required"`
	TimeSpentSeconds int                  `json:"time_spent_seconds" validate:"gte=0"`
}

// SubmitReviewResponse returns the rescheduled card and the queue decision
// the client should apply.
type SubmitReviewResponse struct {
	Card    *domain.Flashcard `json:"card"`
	Requeue srs.Requeue       `json:"requeue"`
}

// CreateFlashcardRequest defines the payload for manually creating a card.
type CreateFlashcardRequest struct {
	CourseID uuid.UUID  `json:"course_id" validate:"required"`
	ModuleID uuid.UUID  `json:"module_id" validate:"required"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`
	Question string     `json:"question"  validate:"required"`
	Answer   string     `json:"answer"    validate:"required"`
}

// GenerateFlashcardsRequest defines the payload for requesting background
// flashcard generation from lesson content.
type GenerateFlashcardsRequest struct {
	CourseID uuid.UUID  `json:"course_id" validate:"required"`
	ModuleID uuid.UUID  `json:"module_id" validate:"required"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`
	Content  string     `json:"content"   validate:"required"`
}

// GenerateFlashcardsResponse acknowledges an accepted generation request.
type GenerateFlashcardsResponse struct {
	EventID uuid.UUID `json:"event_id"`
	Status  string    `json:"status"`
}

// CreateGoalRequest defines the payload for creating a learning goal.
type CreateGoalRequest struct {
	Title       string     `json:"title"        validate:"required"`
	Kind        string     `json:"kind"         validate:"required,oneof=TIME MASTERY COMPLETION"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	ModuleID    *uuid.UUID `json:"module_id,omitempty"`
	TargetValue float64    `json:"target_value" validate:"required,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateGoalRequest defines the payload for editing a learning goal.
// Only non-nil fields are applied.
type UpdateGoalRequest struct {
	Title       *string    `json:"title,omitempty"`
	TargetValue *float64   `json:"target_value,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// QuizScoreRequest defines the payload for recording a module quiz result.
type QuizScoreRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	ModuleID uuid.UUID `json:"module_id" validate:"required"`
	Score    int       `json:"score"     validate:"gte=0,lte=100"`
}
