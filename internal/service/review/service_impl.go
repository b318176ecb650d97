package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/srs"
	"github.com/xelami/kouza-api/internal/domain/study"
	"github.com/xelami/kouza-api/internal/platform/logger"
	"github.com/xelami/kouza-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db           *sql.DB
	cardStore    store.FlashcardStore
	userStore    store.UserStore
	sessionStore store.SessionStore
	scheduler    srs.Service
	progress     ProgressUpdater
	goals        GoalUpdater
	logger       *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
// The progress and goal updaters may be nil, in which case session close
// skips the corresponding downstream step.
func NewReviewService(
	db *sql.DB,
	cardStore store.FlashcardStore,
	userStore store.UserStore,
	sessionStore store.SessionStore,
	scheduler srs.Service,
	progress ProgressUpdater,
	goals GoalUpdater,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:           db,
		cardStore:    cardStore,
		userStore:    userStore,
		sessionStore: sessionStore,
		scheduler:    scheduler,
		progress:     progress,
		goals:        goals,
		logger:       logger.With(slog.String("component", "review_service")),
	}
}

// StartSession implements ReviewService.StartSession.
func (s *reviewServiceImpl) StartSession(
	ctx context.Context,
	userID, courseID, moduleID uuid.UUID,
	startTime time.Time,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.FindOpen(ctx, userID, courseID, moduleID)
	if err == nil {
		log.Debug("reusing open study session",
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", userID.String()))
		return session, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up open session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to look up open session: %w", err)
	}

	session, err = domain.NewStudySession(userID, courseID, moduleID, startTime)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create study session: %w", err)
	}

	return session, nil
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	outcome domain.ReviewOutcome,
	timeSpentSeconds int,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(outcome)))

	if !outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("outcome", string(outcome)))
		return nil, ErrInvalidOutcome
	}

	var result *ReviewResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("flashcard not found for review",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get flashcard: %w", err)
		}

		if card.UserID != userID {
			log.Warn("user does not own flashcard",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("owner_id", card.UserID.String()))
			return ErrCardNotOwned
		}

		updated, requeue, err := s.scheduler.ApplyOutcome(card, outcome, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to apply review outcome: %w", err)
		}

		if err := cards.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to persist flashcard state: %w", err)
		}

		if requeue.Points > 0 {
			if err := users.AddPoints(ctx, userID, requeue.Points); err != nil {
				return fmt.Errorf("failed to credit points: %w", err)
			}
		}

		result = &ReviewResult{Card: updated, Requeue: requeue}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrCardNotOwned) ||
			errors.Is(err, ErrInvalidOutcome) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(outcome)),
		slog.Float64("ease_factor", result.Card.EaseFactor),
		slog.Float64("interval_days", result.Card.Interval),
		slog.Bool("reinsert", result.Requeue.Reinsert),
		slog.Int("time_spent_seconds", timeSpentSeconds))

	return result, nil
}

// EndSession implements ReviewService.EndSession.
func (s *reviewServiceImpl) EndSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	summary study.SessionSummary,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get study session: %w", err)
	}

	if session.UserID != userID {
		log.Warn("user does not own session",
			slog.String("user_id", userID.String()),
			slog.String("session_id", sessionID.String()),
			slog.String("owner_id", session.UserID.String()))
		return nil, ErrSessionNotOwned
	}

	if err := session.Close(time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyClosed) {
			// Duplicate close requests are treated as a no-op success so
			// retries cannot double-count study time.
			log.Debug("session already closed",
				slog.String("session_id", sessionID.String()))
			return session, nil
		}
		return nil, err
	}

	if err := s.sessionStore.Update(ctx, session); err != nil {
		log.Error("failed to persist session close",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, fmt.Errorf("failed to persist session close: %w", err)
	}

	log.Info("study session closed",
		slog.String("session_id", sessionID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("duration_seconds", session.DurationSeconds),
		slog.Int("total_reviews", summary.TotalReviews))

	// Downstream analytics are best effort: the session is already closed
	// and the client gets a success regardless of what happens below.
	if s.progress != nil {
		record, err := s.progress.UpdateFromSession(ctx, session, summary)
		if err != nil {
			log.Warn("retention update failed after session close",
				slog.String("error", err.Error()),
				slog.String("session_id", sessionID.String()))
		} else {
			session.ProgressRecordID = &record.ID
			if err := s.sessionStore.Update(ctx, session); err != nil {
				log.Warn("failed to link session to progress record",
					slog.String("error", err.Error()),
					slog.String("session_id", sessionID.String()),
					slog.String("record_id", record.ID.String()))
			}
		}
	}

	if s.goals != nil {
		if err := s.goals.RecomputeForUser(ctx, userID); err != nil {
			log.Warn("goal recompute failed after session close",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
	}

	return session, nil
}
