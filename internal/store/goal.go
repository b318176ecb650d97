package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// GoalStore defines the interface for learning goal persistence.
type GoalStore interface {
	// Create saves a new learning goal to the store.
	// Returns validation errors from the domain LearningGoal if data is invalid.
	Create(ctx context.Context, goal *domain.LearningGoal) error

	// GetByID retrieves a learning goal by its unique ID.
	// Returns ErrGoalNotFound if the goal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningGoal, error)

	// Update persists changes to an existing goal, including progress and the
	// achieved flag.
	// Returns ErrGoalNotFound if the goal does not exist.
	Update(ctx context.Context, goal *domain.LearningGoal) error

	// Delete removes a learning goal from the store by its ID.
	// Returns ErrGoalNotFound if the goal does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser retrieves all of the user's goals, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGoal, error)

	// ListUnachieved retrieves the user's goals that have not yet been
	// achieved, newest first. Used by the progress recomputation pass.
	ListUnachieved(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGoal, error)

	// WithTx returns a new GoalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GoalStore
}
