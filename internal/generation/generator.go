package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// Request carries everything a generator needs to produce flashcards for a
// single lesson. LessonID is optional; cards generated for a whole module
// leave it nil.
type Request struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	ModuleID uuid.UUID
	LessonID *uuid.UUID

	// Content is the lesson text the cards should be derived from.
	Content string
}

// CardGenerator defines the interface for generating flashcards from lesson
// content.
type CardGenerator interface {
	// GenerateCards creates flashcards based on the lesson content in the
	// request. The returned cards carry the request's user, course, module
	// and lesson IDs and default scheduling state, so they are due
	// immediately once persisted.
	//
	// Returns an error if generation fails (see errors.go for the specific
	// sentinel errors callers can test for with errors.Is).
	GenerateCards(ctx context.Context, req Request) ([]*domain.Flashcard, error)
}
