package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/platform/logger"
	"github.com/xelami/kouza-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

const flashcardColumns = `id, user_id, course_id, module_id, lesson_id, question, answer,
	ease_factor, interval_days, repetitions, last_reviewed_at, next_review_at,
	created_at, updated_at`

// Create implements store.FlashcardStore.Create
// Returns store.ErrInvalidEntity if the owning user doesn't exist.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (` + flashcardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.CourseID,
		card.ModuleID,
		card.LessonID,
		card.Question,
		card.Answer,
		card.EaseFactor,
		card.Interval,
		card.Repetitions,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Info("flashcard created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It inserts each card in order; callers wanting atomicity across the batch
// should run this through WithTx inside a transaction.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}

	log.Info("flashcard batch created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE id = $1
	`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("card_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.FlashcardStore.Update
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	card.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE flashcards
		SET question = $1, answer = $2, ease_factor = $3, interval_days = $4,
			repetitions = $5, last_reviewed_at = $6, next_review_at = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Question,
		card.Answer,
		card.EaseFactor,
		card.Interval,
		card.Repetitions,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.UpdatedAt,
		card.ID,
	)

	if err != nil {
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// Delete implements store.FlashcardStore.Delete
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	log.Info("flashcard deleted", slog.String("card_id", id.String()))
	return nil
}

// ListByModule implements store.FlashcardStore.ListByModule
func (s *PostgresFlashcardStore) ListByModule(
	ctx context.Context,
	userID, moduleID uuid.UUID,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE user_id = $1 AND module_id = $2
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, moduleID)
	if err != nil {
		log.Error("failed to list flashcards by module",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	return collectFlashcards(rows, log)
}

// ListDue implements store.FlashcardStore.ListDue
// Cards never reviewed (null next_review_at) are due immediately and sort
// before scheduled cards; among scheduled cards, the most overdue come first.
func (s *PostgresFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	moduleID *uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE user_id = $1
			AND ($2::uuid IS NULL OR module_id = $2)
			AND (next_review_at IS NULL OR next_review_at <= $3)
		ORDER BY next_review_at ASC NULLS FIRST, created_at ASC
	`

	args := []any{userID, moduleID, now.UTC()}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list due flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return collectFlashcards(rows, log)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.CourseID,
		&card.ModuleID,
		&card.LessonID,
		&card.Question,
		&card.Answer,
		&card.EaseFactor,
		&card.Interval,
		&card.Repetitions,
		&card.LastReviewedAt,
		&card.NextReviewAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func collectFlashcards(rows *sql.Rows, log *slog.Logger) ([]*domain.Flashcard, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return cards, nil
}
