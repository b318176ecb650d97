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

// PostgresGoalStore implements the store.GoalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGoalStore creates a new PostgreSQL implementation of the
// GoalStore interface. If logger is nil, a default logger will be used.
func NewPostgresGoalStore(db store.DBTX, logger *slog.Logger) *PostgresGoalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "goal_store")),
	}
}

// Ensure PostgresGoalStore implements store.GoalStore interface
var _ store.GoalStore = (*PostgresGoalStore)(nil)

// WithTx implements store.GoalStore.WithTx
func (s *PostgresGoalStore) WithTx(tx *sql.Tx) store.GoalStore {
	return &PostgresGoalStore{
		db:     tx,
		logger: s.logger,
	}
}

const goalColumns = `id, user_id, title, kind, course_id, module_id, target_value,
	progress, achieved, deadline, created_at, updated_at`

// Create implements store.GoalStore.Create
func (s *PostgresGoalStore) Create(ctx context.Context, goal *domain.LearningGoal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return err
	}

	query := `
		INSERT INTO learning_goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Kind,
		goal.CourseID,
		goal.ModuleID,
		goal.TargetValue,
		goal.Progress,
		goal.Achieved,
		goal.Deadline,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create learning goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()),
			slog.String("user_id", goal.UserID.String()))
		return MapError(err)
	}

	log.Info("learning goal created",
		slog.String("goal_id", goal.ID.String()),
		slog.String("user_id", goal.UserID.String()),
		slog.String("kind", string(goal.Kind)))
	return nil
}

// GetByID implements store.GoalStore.GetByID
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *PostgresGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + goalColumns + `
		FROM learning_goals
		WHERE id = $1
	`

	goal, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learning goal not found", slog.String("goal_id", id.String()))
			return nil, store.ErrGoalNotFound
		}
		log.Error("failed to get learning goal by ID",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, MapError(err)
	}

	return goal, nil
}

// Update implements store.GoalStore.Update
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *PostgresGoalStore) Update(ctx context.Context, goal *domain.LearningGoal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during update",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return err
	}

	goal.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE learning_goals
		SET title = $1, kind = $2, course_id = $3, module_id = $4,
			target_value = $5, progress = $6, achieved = $7, deadline = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		goal.Title,
		goal.Kind,
		goal.CourseID,
		goal.ModuleID,
		goal.TargetValue,
		goal.Progress,
		goal.Achieved,
		goal.Deadline,
		goal.UpdatedAt,
		goal.ID,
	)

	if err != nil {
		log.Error("failed to update learning goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrGoalNotFound)
}

// Delete implements store.GoalStore.Delete
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *PostgresGoalStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM learning_goals WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete learning goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrGoalNotFound); err != nil {
		return err
	}

	log.Info("learning goal deleted", slog.String("goal_id", id.String()))
	return nil
}

// ListByUser implements store.GoalStore.ListByUser
func (s *PostgresGoalStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM learning_goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, userID)
}

// ListUnachieved implements store.GoalStore.ListUnachieved
func (s *PostgresGoalStore) ListUnachieved(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM learning_goals
		WHERE user_id = $1 AND achieved = FALSE
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, userID)
}

func (s *PostgresGoalStore) list(ctx context.Context, query string, userID uuid.UUID) ([]*domain.LearningGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list learning goals",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	goals := []*domain.LearningGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			log.Error("failed to scan goal row",
				slog.String("error", err.Error()))
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return goals, nil
}

func scanGoal(row rowScanner) (*domain.LearningGoal, error) {
	var goal domain.LearningGoal
	var kind string
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&kind,
		&goal.CourseID,
		&goal.ModuleID,
		&goal.TargetValue,
		&goal.Progress,
		&goal.Achieved,
		&goal.Deadline,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	goal.Kind = domain.GoalKind(kind)
	return &goal, nil
}
