package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// ProgressRecordStore defines the interface for progress record persistence.
// Records are one per (user, module, UTC calendar day); the upsert policy is
// enforced by the service layer via GetForDay.
type ProgressRecordStore interface {
	// Create saves a new progress record to the store.
	// Returns validation errors from the domain ProgressRecord if data is invalid.
	Create(ctx context.Context, record *domain.ProgressRecord) error

	// GetByID retrieves a progress record by its unique ID.
	// Returns ErrProgressRecordNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressRecord, error)

	// Update overwrites an existing record's scores and time spent.
	// Returns ErrProgressRecordNotFound if the record does not exist.
	Update(ctx context.Context, record *domain.ProgressRecord) error

	// GetForDay retrieves the user's record for a module on the UTC calendar
	// day containing t.
	// Returns ErrProgressRecordNotFound when no record exists for that day.
	GetForDay(ctx context.Context, userID, moduleID uuid.UUID, t time.Time) (*domain.ProgressRecord, error)

	// Latest retrieves the user's most recent record for a module.
	// Returns ErrProgressRecordNotFound when the user has no records for it.
	Latest(ctx context.Context, userID, moduleID uuid.UUID) (*domain.ProgressRecord, error)

	// ListByModule retrieves all of the user's records for a module, most
	// recent first.
	ListByModule(ctx context.Context, userID, moduleID uuid.UUID) ([]*domain.ProgressRecord, error)

	// WithTx returns a new ProgressRecordStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressRecordStore
}
