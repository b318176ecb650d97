// Package review implements the study session review flow: starting
// sessions, applying review outcomes to flashcards, and closing sessions
// with the downstream retention and goal updates.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/srs"
	"github.com/xelami/kouza-api/internal/domain/study"
)

// Common error types for ReviewService
var (
	// ErrCardNotFound indicates that the flashcard does not exist.
	ErrCardNotFound = errors.New("flashcard not found")

	// ErrCardNotOwned indicates that the user does not own the flashcard.
	ErrCardNotOwned = errors.New("unauthorized access: flashcard not owned by user")

	// ErrSessionNotFound indicates that the study session does not exist.
	ErrSessionNotFound = errors.New("study session not found")

	// ErrSessionNotOwned indicates that the user does not own the session.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrInvalidOutcome indicates an unknown review outcome was submitted.
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// ReviewResult is the outcome of submitting one review: the card's new
// scheduling state plus the queue decision the client should apply.
type ReviewResult struct {
	Card    *domain.Flashcard `json:"card"`
	Requeue srs.Requeue       `json:"requeue"`
}

// ReviewService provides the study session lifecycle and per-card review
// processing using the spaced repetition scheduler.
type ReviewService interface {
	// StartSession returns the user's open session for the (course, module)
	// pair, creating one when none exists. Repeated calls while a session is
	// open return the same session.
	StartSession(
		ctx context.Context,
		userID, courseID, moduleID uuid.UUID,
		startTime time.Time,
	) (*domain.StudySession, error)

	// SubmitReview applies one review outcome to a flashcard: in a single
	// transaction it verifies ownership, advances the card's scheduling
	// state, persists it, and credits points for successful recalls.
	//
	// Returns ErrCardNotFound, ErrCardNotOwned, or ErrInvalidOutcome for the
	// corresponding failure modes.
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		outcome domain.ReviewOutcome,
		timeSpentSeconds int,
	) (*ReviewResult, error)

	// EndSession closes the session and feeds its summary to the retention
	// estimator and goal updater. Closing an already-closed session is a
	// no-op success. Estimator or goal failures are logged and swallowed;
	// the close itself still succeeds.
	EndSession(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		summary study.SessionSummary,
	) (*domain.StudySession, error)
}

// ProgressUpdater is the slice of the progress service the review flow
// needs: turning a closed session's summary into a progress record.
type ProgressUpdater interface {
	UpdateFromSession(
		ctx context.Context,
		session *domain.StudySession,
		summary study.SessionSummary,
	) (*domain.ProgressRecord, error)
}

// GoalUpdater recomputes a user's learning goal progress.
type GoalUpdater interface {
	RecomputeForUser(ctx context.Context, userID uuid.UUID) error
}
