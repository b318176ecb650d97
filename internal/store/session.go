package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new study session to the store.
	// Returns validation errors from the domain StudySession if data is invalid.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a study session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update persists changes to an existing session, including its end time,
	// duration and progress record link.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.StudySession) error

	// FindOpen retrieves the user's open session (nil end time) for the given
	// course and module, if one exists.
	// Returns ErrSessionNotFound when no open session exists.
	FindOpen(ctx context.Context, userID, courseID, moduleID uuid.UUID) (*domain.StudySession, error)

	// ListCompletedByModule retrieves the user's closed sessions for a module,
	// most recent first.
	ListCompletedByModule(ctx context.Context, userID, moduleID uuid.UUID) ([]*domain.StudySession, error)

	// ListCompletedByCourse retrieves the user's closed sessions across a
	// whole course, most recent first.
	ListCompletedByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]*domain.StudySession, error)

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
