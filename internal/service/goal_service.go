package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/platform/logger"
	"github.com/xelami/kouza-api/internal/store"
)

// GoalUpdate carries the mutable fields of a learning goal for UpdateGoal.
// Nil fields are left unchanged.
type GoalUpdate struct {
	Title       *string
	TargetValue *float64
	Deadline    *time.Time
}

// GoalService manages learning goals and recomputes their progress from
// session and progress-record data.
type GoalService struct {
	goalStore     store.GoalStore
	sessionStore  store.SessionStore
	progressStore store.ProgressRecordStore
	logger        *slog.Logger
}

// NewGoalService creates a new GoalService.
// If logger is nil, a default logger will be used.
func NewGoalService(
	goalStore store.GoalStore,
	sessionStore store.SessionStore,
	progressStore store.ProgressRecordStore,
	logger *slog.Logger,
) *GoalService {
	if goalStore == nil {
		panic("goalStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GoalService{
		goalStore:     goalStore,
		sessionStore:  sessionStore,
		progressStore: progressStore,
		logger:        logger.With(slog.String("component", "goal_service")),
	}
}

// CreateGoal builds and persists a new learning goal with zero progress.
func (s *GoalService) CreateGoal(
	ctx context.Context,
	userID uuid.UUID,
	title string,
	kind domain.GoalKind,
	courseID, moduleID *uuid.UUID,
	targetValue float64,
	deadline *time.Time,
) (*domain.LearningGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goal, err := domain.NewLearningGoal(userID, title, kind, courseID, moduleID, targetValue, deadline)
	if err != nil {
		return nil, err
	}

	if err := s.goalStore.Create(ctx, goal); err != nil {
		log.Error("failed to create learning goal",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create learning goal: %w", err)
	}

	return goal, nil
}

// GetGoal retrieves a goal, enforcing ownership.
// Returns store.ErrGoalNotFound for unknown IDs and ErrNotOwned when the
// goal belongs to a different user.
func (s *GoalService) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.LearningGoal, error) {
	goal, err := s.goalStore.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrNotOwned
	}
	return goal, nil
}

// ListGoals retrieves all of the user's goals, newest first.
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGoal, error) {
	return s.goalStore.ListByUser(ctx, userID)
}

// UpdateGoal applies the given field updates to an owned goal.
func (s *GoalService) UpdateGoal(
	ctx context.Context,
	userID, goalID uuid.UUID,
	update GoalUpdate,
) (*domain.LearningGoal, error) {
	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		goal.Title = *update.Title
	}
	if update.TargetValue != nil {
		goal.TargetValue = *update.TargetValue
	}
	if update.Deadline != nil {
		goal.Deadline = update.Deadline
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.goalStore.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update learning goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes an owned goal.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	if _, err := s.GetGoal(ctx, userID, goalID); err != nil {
		return err
	}
	return s.goalStore.Delete(ctx, goalID)
}

// RecomputeForUser recalculates progress for every unachieved goal the user
// has. Per-goal failures are logged and skipped so one broken goal cannot
// block the rest; achieved goals are never revisited and goals without a
// course or module scope are skipped.
func (s *GoalService) RecomputeForUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goals, err := s.goalStore.ListUnachieved(ctx, userID)
	if err != nil {
		log.Error("failed to list unachieved goals",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to list unachieved goals: %w", err)
	}

	for _, goal := range goals {
		if !goal.Trackable() {
			log.Debug("skipping goal without scope",
				slog.String("goal_id", goal.ID.String()))
			continue
		}

		progress, ok, err := s.computeProgress(ctx, goal)
		if err != nil {
			log.Warn("failed to recompute goal progress",
				slog.String("error", err.Error()),
				slog.String("goal_id", goal.ID.String()),
				slog.String("kind", string(goal.Kind)))
			continue
		}
		if !ok {
			continue
		}

		goal.SetProgress(progress)
		if err := s.goalStore.Update(ctx, goal); err != nil {
			log.Warn("failed to persist goal progress",
				slog.String("error", err.Error()),
				slog.String("goal_id", goal.ID.String()))
			continue
		}

		if goal.Achieved {
			log.Info("learning goal achieved",
				slog.String("goal_id", goal.ID.String()),
				slog.String("user_id", userID.String()),
				slog.String("kind", string(goal.Kind)))
		}
	}

	return nil
}

// computeProgress returns the goal's raw (unclamped) progress fraction.
// ok is false when the goal has no usable data yet, for example a mastery
// goal whose module has no progress records.
func (s *GoalService) computeProgress(
	ctx context.Context,
	goal *domain.LearningGoal,
) (float64, bool, error) {
	switch goal.Kind {
	case domain.GoalKindTime:
		sessions, err := s.scopedSessions(ctx, goal)
		if err != nil {
			return 0, false, err
		}
		total := 0
		for _, session := range sessions {
			total += session.DurationSeconds
		}
		return float64(total) / (goal.TargetValue * 60), true, nil

	case domain.GoalKindMastery:
		record, err := s.progressStore.Latest(ctx, goal.UserID, *goal.ModuleID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return 0, false, nil
			}
			return 0, false, err
		}
		var score int
		switch {
		case record.MasteryScore != nil:
			score = *record.MasteryScore
		case record.RetentionRate != nil:
			score = *record.RetentionRate
		default:
			return 0, false, nil
		}
		return float64(score) / goal.TargetValue, true, nil

	case domain.GoalKindCompletion:
		sessions, err := s.scopedSessions(ctx, goal)
		if err != nil {
			return 0, false, err
		}
		return float64(len(sessions)) / goal.TargetValue, true, nil

	default:
		return 0, false, fmt.Errorf("unknown goal kind %q", goal.Kind)
	}
}

// scopedSessions returns the user's completed sessions matching the goal's
// scope, preferring the narrower module scope when both are set.
func (s *GoalService) scopedSessions(
	ctx context.Context,
	goal *domain.LearningGoal,
) ([]*domain.StudySession, error) {
	if goal.ModuleID != nil {
		return s.sessionStore.ListCompletedByModule(ctx, goal.UserID, *goal.ModuleID)
	}
	return s.sessionStore.ListCompletedByCourse(ctx, goal.UserID, *goal.CourseID)
}
