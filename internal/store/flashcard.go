package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// Create saves a new flashcard to the store.
	// Returns validation errors from the domain Flashcard if data is invalid.
	Create(ctx context.Context, card *domain.Flashcard) error

	// CreateMultiple saves a batch of flashcards in a single operation.
	// The caller is expected to run this within a transaction when atomicity
	// across the batch matters.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// Update persists the scheduling state and content of an existing card.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard from the store by its ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByModule retrieves all of a user's flashcards for a module,
	// ordered by creation time.
	ListByModule(ctx context.Context, userID, moduleID uuid.UUID) ([]*domain.Flashcard, error)

	// ListDue retrieves the user's cards whose next review time is at or
	// before now, plus cards never reviewed, ordered so the most overdue come
	// first. moduleID narrows the result to one module when non-nil.
	// A limit of 0 means no limit.
	ListDue(ctx context.Context, userID uuid.UUID, moduleID *uuid.UUID, now time.Time, limit int) ([]*domain.Flashcard, error)

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
