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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

const sessionColumns = `id, user_id, course_id, module_id, start_time, end_time,
	duration_seconds, progress_record_id, created_at, updated_at`

// Create implements store.SessionStore.Create
// Returns store.ErrInvalidEntity if the owning user doesn't exist.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.CourseID,
		session.ModuleID,
		session.StartTime,
		session.EndTime,
		session.DurationSeconds,
		session.ProgressRecordID,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Info("study session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("module_id", session.ModuleID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE id = $1
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get study session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	return session, nil
}

// Update implements store.SessionStore.Update
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	session.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE study_sessions
		SET end_time = $1, duration_seconds = $2, progress_record_id = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.EndTime,
		session.DurationSeconds,
		session.ProgressRecordID,
		session.UpdatedAt,
		session.ID,
	)

	if err != nil {
		log.Error("failed to update study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrSessionNotFound)
}

// FindOpen implements store.SessionStore.FindOpen
// Returns store.ErrSessionNotFound when no open session exists for the triple.
func (s *PostgresSessionStore) FindOpen(
	ctx context.Context,
	userID, courseID, moduleID uuid.UUID,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// If duplicates ever exist, the most recently started one wins.
	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1 AND course_id = $2 AND module_id = $3 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, userID, courseID, moduleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to find open study session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	return session, nil
}

// ListCompletedByModule implements store.SessionStore.ListCompletedByModule
func (s *PostgresSessionStore) ListCompletedByModule(
	ctx context.Context,
	userID, moduleID uuid.UUID,
) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1 AND module_id = $2 AND end_time IS NOT NULL
		ORDER BY end_time DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, moduleID)
	if err != nil {
		log.Error("failed to list completed sessions by module",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("module_id", moduleID.String()))
		return nil, MapError(err)
	}

	return collectSessions(rows, log)
}

// ListCompletedByCourse implements store.SessionStore.ListCompletedByCourse
func (s *PostgresSessionStore) ListCompletedByCourse(
	ctx context.Context,
	userID, courseID uuid.UUID,
) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1 AND course_id = $2 AND end_time IS NOT NULL
		ORDER BY end_time DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		log.Error("failed to list completed sessions by course",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}

	return collectSessions(rows, log)
}

func scanSession(row rowScanner) (*domain.StudySession, error) {
	var session domain.StudySession
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.CourseID,
		&session.ModuleID,
		&session.StartTime,
		&session.EndTime,
		&session.DurationSeconds,
		&session.ProgressRecordID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func collectSessions(rows *sql.Rows, log *slog.Logger) ([]*domain.StudySession, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	sessions := []*domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row",
				slog.String("error", err.Error()))
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return sessions, nil
}
