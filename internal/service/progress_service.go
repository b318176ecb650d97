package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/mastery"
	"github.com/xelami/kouza-api/internal/domain/study"
	"github.com/xelami/kouza-api/internal/platform/logger"
	"github.com/xelami/kouza-api/internal/store"
)

// ProgressService maintains the daily progress records that track a user's
// retention per module. It blends session results, historical records, and
// quiz scores into a single time-weighted retention estimate.
type ProgressService struct {
	progressStore store.ProgressRecordStore
	logger        *slog.Logger
}

// NewProgressService creates a new ProgressService.
// If logger is nil, a default logger will be used.
func NewProgressService(progressStore store.ProgressRecordStore, logger *slog.Logger) *ProgressService {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressService{
		progressStore: progressStore,
		logger:        logger.With(slog.String("component", "progress_service")),
	}
}

// UpdateFromSession recomputes the module's retention estimate from a closed
// study session and upserts today's progress record. The blend draws from
// three signal sources: the session's first-pass rate weighted by its
// duration, prior records' retention rates weighted by their recorded study
// time, and prior quiz scores at a fixed nominal weight.
//
// The weighted path writes RetentionRate and MasteryScore equal; only the
// quiz path diverges them.
func (s *ProgressService) UpdateFromSession(
	ctx context.Context,
	session *domain.StudySession,
	summary study.SessionSummary,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	signals := []mastery.Signal{}
	if summary.UniqueCards > 0 {
		signals = append(signals, mastery.Signal{
			Value:  summary.FirstPassRate,
			Weight: float64(session.DurationSeconds),
		})
	}

	records, err := s.progressStore.ListByModule(ctx, session.UserID, session.ModuleID)
	if err != nil {
		log.Error("failed to load prior progress records",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()),
			slog.String("module_id", session.ModuleID.String()))
		return nil, fmt.Errorf("failed to load prior progress records: %w", err)
	}

	for _, record := range records {
		if record.RetentionRate != nil {
			signals = append(signals, mastery.Signal{
				Value:  float64(*record.RetentionRate),
				Weight: float64(record.TimeSpentSeconds),
			})
		}
		if record.QuizScore != nil {
			signals = append(signals, mastery.Signal{
				Value:  float64(*record.QuizScore),
				Weight: mastery.QuizSignalWeight,
			})
		}
	}

	now := time.Now().UTC()
	record, isNew, err := s.upsertTarget(ctx, session.UserID, session.CourseID, session.ModuleID, now)
	if err != nil {
		return nil, err
	}

	if estimate, ok := mastery.Aggregate(signals); ok {
		rate := estimate
		score := estimate
		record.RetentionRate = &rate
		record.MasteryScore = &score
	}
	record.TimeSpentSeconds += session.DurationSeconds
	record.RecordedAt = now

	if isNew {
		err = s.progressStore.Create(ctx, record)
	} else {
		err = s.progressStore.Update(ctx, record)
	}
	if err != nil {
		log.Error("failed to persist progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return nil, fmt.Errorf("failed to persist progress record: %w", err)
	}

	log.Info("progress record updated from session",
		slog.String("record_id", record.ID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("module_id", session.ModuleID.String()))
	return record, nil
}

// RecordQuizScore applies a quiz result directly to today's progress record:
// the mastery score is overwritten with the quiz score, bypassing the
// weighted blend. The retention rate is left untouched, so the two fields
// can diverge after a quiz-only day.
func (s *ProgressService) RecordQuizScore(
	ctx context.Context,
	userID, courseID, moduleID uuid.UUID,
	score int,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if score < 0 || score > 100 {
		return nil, ErrInvalidScore
	}

	now := time.Now().UTC()
	record, isNew, err := s.upsertTarget(ctx, userID, courseID, moduleID, now)
	if err != nil {
		return nil, err
	}

	quiz := score
	mastered := score
	record.QuizScore = &quiz
	record.MasteryScore = &mastered
	record.RecordedAt = now

	if isNew {
		err = s.progressStore.Create(ctx, record)
	} else {
		err = s.progressStore.Update(ctx, record)
	}
	if err != nil {
		log.Error("failed to persist quiz progress",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return nil, fmt.Errorf("failed to persist quiz progress: %w", err)
	}

	log.Info("quiz score recorded",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("module_id", moduleID.String()),
		slog.Int("score", score))
	return record, nil
}

// upsertTarget returns today's record for the (user, module) pair, creating
// a fresh in-memory record when none exists yet. isNew tells the caller
// whether to Create or Update when persisting.
func (s *ProgressService) upsertTarget(
	ctx context.Context,
	userID, courseID, moduleID uuid.UUID,
	now time.Time,
) (record *domain.ProgressRecord, isNew bool, err error) {
	record, err = s.progressStore.GetForDay(ctx, userID, moduleID, now)
	if err == nil {
		return record, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up today's progress record: %w", err)
	}

	record, err = domain.NewProgressRecord(userID, courseID, moduleID, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build progress record: %w", err)
	}
	return record, true, nil
}
