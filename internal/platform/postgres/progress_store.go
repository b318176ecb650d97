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

// PostgresProgressStore implements the store.ProgressRecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressRecordStore interface. If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressRecordStore interface
var _ store.ProgressRecordStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressRecordStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressRecordStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

const progressColumns = `id, user_id, course_id, module_id, retention_rate, mastery_score,
	quiz_score, time_spent_seconds, recorded_at, created_at, updated_at`

// Create implements store.ProgressRecordStore.Create
func (s *PostgresProgressStore) Create(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO progress_records (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.CourseID,
		record.ModuleID,
		record.RetentionRate,
		record.MasteryScore,
		record.QuizScore,
		record.TimeSpentSeconds,
		record.RecordedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		return MapError(err)
	}

	log.Info("progress record created",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.String("module_id", record.ModuleID.String()))
	return nil
}

// GetByID implements store.ProgressRecordStore.GetByID
// Returns store.ErrProgressRecordNotFound if the record does not exist.
func (s *PostgresProgressStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + progressColumns + `
		FROM progress_records
		WHERE id = $1
	`

	record, err := scanProgressRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record not found", slog.String("record_id", id.String()))
			return nil, store.ErrProgressRecordNotFound
		}
		log.Error("failed to get progress record by ID",
			slog.String("error", err.Error()),
			slog.String("record_id", id.String()))
		return nil, MapError(err)
	}

	return record, nil
}

// Update implements store.ProgressRecordStore.Update
// Returns store.ErrProgressRecordNotFound if the record does not exist.
func (s *PostgresProgressStore) Update(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during update",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE progress_records
		SET retention_rate = $1, mastery_score = $2, quiz_score = $3,
			time_spent_seconds = $4, recorded_at = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		record.RetentionRate,
		record.MasteryScore,
		record.QuizScore,
		record.TimeSpentSeconds,
		record.RecordedAt,
		record.UpdatedAt,
		record.ID,
	)

	if err != nil {
		log.Error("failed to update progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrProgressRecordNotFound)
}

// GetForDay implements store.ProgressRecordStore.GetForDay
// Day boundaries are UTC calendar days.
// Returns store.ErrProgressRecordNotFound when no record exists for that day.
func (s *PostgresProgressStore) GetForDay(
	ctx context.Context,
	userID, moduleID uuid.UUID,
	t time.Time,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dayStart := t.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + progressColumns + `
		FROM progress_records
		WHERE user_id = $1 AND module_id = $2
			AND recorded_at >= $3 AND recorded_at < $4
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	record, err := scanProgressRecord(
		s.db.QueryRowContext(ctx, query, userID, moduleID, dayStart, dayEnd),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressRecordNotFound
		}
		log.Error("failed to get progress record for day",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	return record, nil
}

// Latest implements store.ProgressRecordStore.Latest
// Returns store.ErrProgressRecordNotFound when the user has no records
// for the module.
func (s *PostgresProgressStore) Latest(
	ctx context.Context,
	userID, moduleID uuid.UUID,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + progressColumns + `
		FROM progress_records
		WHERE user_id = $1 AND module_id = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	record, err := scanProgressRecord(s.db.QueryRowContext(ctx, query, userID, moduleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressRecordNotFound
		}
		log.Error("failed to get latest progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	return record, nil
}

// ListByModule implements store.ProgressRecordStore.ListByModule
func (s *PostgresProgressStore) ListByModule(
	ctx context.Context,
	userID, moduleID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + progressColumns + `
		FROM progress_records
		WHERE user_id = $1 AND module_id = $2
		ORDER BY recorded_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, moduleID)
	if err != nil {
		log.Error("failed to list progress records by module",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.ProgressRecord{}
	for rows.Next() {
		record, err := scanProgressRecord(rows)
		if err != nil {
			log.Error("failed to scan progress record row",
				slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}

func scanProgressRecord(row rowScanner) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.CourseID,
		&record.ModuleID,
		&record.RetentionRate,
		&record.MasteryScore,
		&record.QuizScore,
		&record.TimeSpentSeconds,
		&record.RecordedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
