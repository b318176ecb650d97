package review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/domain/srs"
	"github.com/xelami/kouza-api/internal/domain/study"
	"github.com/xelami/kouza-api/internal/store"
)

// mockSessionStore implements store.SessionStore with overridable behavior
// per method. Unset methods fail the test if called.
type mockSessionStore struct {
	t *testing.T

	findOpenFn func(ctx context.Context, userID, courseID, moduleID uuid.UUID) (*domain.StudySession, error)
	getByIDFn  func(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)
	createFn   func(ctx context.Context, session *domain.StudySession) error
	updateFn   func(ctx context.Context, session *domain.StudySession) error

	created []*domain.StudySession
	updated []*domain.StudySession
}

func (m *mockSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	m.created = append(m.created, session)
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	if m.getByIDFn == nil {
		m.t.Fatal("unexpected GetByID call")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	m.updated = append(m.updated, session)
	if m.updateFn != nil {
		return m.updateFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) FindOpen(
	ctx context.Context,
	userID, courseID, moduleID uuid.UUID,
) (*domain.StudySession, error) {
	if m.findOpenFn == nil {
		m.t.Fatal("unexpected FindOpen call")
	}
	return m.findOpenFn(ctx, userID, courseID, moduleID)
}

func (m *mockSessionStore) ListCompletedByModule(
	_ context.Context, _, _ uuid.UUID,
) ([]*domain.StudySession, error) {
	m.t.Fatal("unexpected ListCompletedByModule call")
	return nil, nil
}

func (m *mockSessionStore) ListCompletedByCourse(
	_ context.Context, _, _ uuid.UUID,
) ([]*domain.StudySession, error) {
	m.t.Fatal("unexpected ListCompletedByCourse call")
	return nil, nil
}

func (m *mockSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return m }

// stubCardStore satisfies store.FlashcardStore for tests that never reach
// the card path.
type stubCardStore struct{}

func (stubCardStore) Create(context.Context, *domain.Flashcard) error { return nil }

func (stubCardStore) CreateMultiple(context.Context, []*domain.Flashcard) error { return nil }
func (stubCardStore) GetByID(context.Context, uuid.UUID) (*domain.Flashcard, error) {
	return nil, store.ErrNotFound
}
func (stubCardStore) Update(context.Context, *domain.Flashcard) error { return nil }
func (stubCardStore) Delete(context.Context, uuid.UUID) error         { return nil }
func (stubCardStore) ListByModule(context.Context, uuid.UUID, uuid.UUID) ([]*domain.Flashcard, error) {
	return nil, nil
}
func (stubCardStore) ListDue(
	context.Context, uuid.UUID, *uuid.UUID, time.Time, int,
) ([]*domain.Flashcard, error) {
	return nil, nil
}
func (s stubCardStore) WithTx(_ *sql.Tx) store.FlashcardStore { return s }

// stubUserStore satisfies store.UserStore for the same reason.
type stubUserStore struct{}

func (stubUserStore) Create(context.Context, *domain.User) error { return nil }
func (stubUserStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, store.ErrNotFound
}
func (stubUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, store.ErrNotFound
}
func (stubUserStore) Update(context.Context, *domain.User) error { return nil }

func (stubUserStore) AddPoints(context.Context, uuid.UUID, int) error { return nil }

func (stubUserStore) Delete(context.Context, uuid.UUID) error { return nil }

func (s stubUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

type mockProgressUpdater struct {
	record  *domain.ProgressRecord
	err     error
	calls   int
	summary study.SessionSummary
}

func (m *mockProgressUpdater) UpdateFromSession(
	_ context.Context,
	_ *domain.StudySession,
	summary study.SessionSummary,
) (*domain.ProgressRecord, error) {
	m.calls++
	m.summary = summary
	return m.record, m.err
}

type mockGoalUpdater struct {
	err   error
	calls int
}

func (m *mockGoalUpdater) RecomputeForUser(_ context.Context, _ uuid.UUID) error {
	m.calls++
	return m.err
}

func newTestService(
	sessions store.SessionStore,
	progress ProgressUpdater,
	goals GoalUpdater,
) ReviewService {
	return NewReviewService(
		&sql.DB{},
		stubCardStore{},
		stubUserStore{},
		sessions,
		srs.NewDefaultService(),
		progress,
		goals,
		slog.Default(),
	)
}

func openSession(t *testing.T, userID, courseID, moduleID uuid.UUID) *domain.StudySession {
	t.Helper()
	session, err := domain.NewStudySession(
		userID, courseID, moduleID, time.Now().UTC().Add(-30*time.Minute))
	require.NoError(t, err)
	return session
}

func TestStartSessionReusesOpenSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	courseID := uuid.New()
	moduleID := uuid.New()
	existing := openSession(t, userID, courseID, moduleID)

	sessions := &mockSessionStore{
		t: t,
		findOpenFn: func(_ context.Context, _, _, _ uuid.UUID) (*domain.StudySession, error) {
			return existing, nil
		},
	}
	svc := newTestService(sessions, nil, nil)

	got, err := svc.StartSession(context.Background(), userID, courseID, moduleID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Empty(t, sessions.created, "no new session should be created while one is open")
}

func TestStartSessionCreatesWhenNoneOpen(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	courseID := uuid.New()
	moduleID := uuid.New()
	startTime := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	sessions := &mockSessionStore{
		t: t,
		findOpenFn: func(_ context.Context, _, _, _ uuid.UUID) (*domain.StudySession, error) {
			return nil, store.ErrNotFound
		},
	}
	svc := newTestService(sessions, nil, nil)

	got, err := svc.StartSession(context.Background(), userID, courseID, moduleID, startTime)
	require.NoError(t, err)
	require.Len(t, sessions.created, 1)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, startTime, got.StartTime)
	assert.True(t, got.Open())
}

func TestStartSessionLookupFailure(t *testing.T) {
	t.Parallel()

	lookupErr := errors.New("connection refused")
	sessions := &mockSessionStore{
		t: t,
		findOpenFn: func(_ context.Context, _, _, _ uuid.UUID) (*domain.StudySession, error) {
			return nil, lookupErr
		},
	}
	svc := newTestService(sessions, nil, nil)

	_, err := svc.StartSession(context.Background(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, sessions.created)
}

func TestSubmitReviewInvalidOutcome(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockSessionStore{t: t}, nil, nil)

	_, err := svc.SubmitReview(
		context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcome("perfect"), 5)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestEndSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	courseID := uuid.New()
	moduleID := uuid.New()

	summary := study.SessionSummary{
		UniqueCards:   4,
		TotalReviews:  6,
		FirstPassRate: 75,
	}

	t.Run("closes session and links progress record", func(t *testing.T) {
		t.Parallel()

		session := openSession(t, userID, courseID, moduleID)
		record := &domain.ProgressRecord{ID: uuid.New()}
		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return session, nil
			},
		}
		progress := &mockProgressUpdater{record: record}
		goals := &mockGoalUpdater{}
		svc := newTestService(sessions, progress, goals)

		got, err := svc.EndSession(context.Background(), userID, session.ID, summary)
		require.NoError(t, err)
		assert.False(t, got.Open())
		assert.Positive(t, got.DurationSeconds)
		require.NotNil(t, got.ProgressRecordID)
		assert.Equal(t, record.ID, *got.ProgressRecordID)
		assert.Equal(t, 1, progress.calls)
		assert.Equal(t, summary, progress.summary)
		assert.Equal(t, 1, goals.calls)
		// Close persisted, then the progress record link.
		assert.Len(t, sessions.updated, 2)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return nil, store.ErrNotFound
			},
		}
		svc := newTestService(sessions, nil, nil)

		_, err := svc.EndSession(context.Background(), userID, uuid.New(), summary)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("not owned", func(t *testing.T) {
		t.Parallel()

		session := openSession(t, uuid.New(), courseID, moduleID)
		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return session, nil
			},
		}
		svc := newTestService(sessions, nil, nil)

		_, err := svc.EndSession(context.Background(), userID, session.ID, summary)
		assert.ErrorIs(t, err, ErrSessionNotOwned)
	})

	t.Run("already closed is a no-op success", func(t *testing.T) {
		t.Parallel()

		session := openSession(t, userID, courseID, moduleID)
		require.NoError(t, session.Close(time.Now().UTC()))

		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return session, nil
			},
		}
		progress := &mockProgressUpdater{}
		svc := newTestService(sessions, progress, &mockGoalUpdater{})

		got, err := svc.EndSession(context.Background(), userID, session.ID, summary)
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, 0, progress.calls, "a duplicate close must not re-run analytics")
		assert.Empty(t, sessions.updated)
	})

	t.Run("downstream failures do not fail the close", func(t *testing.T) {
		t.Parallel()

		session := openSession(t, userID, courseID, moduleID)
		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return session, nil
			},
		}
		progress := &mockProgressUpdater{err: errors.New("estimator offline")}
		goals := &mockGoalUpdater{err: errors.New("goal store offline")}
		svc := newTestService(sessions, progress, goals)

		got, err := svc.EndSession(context.Background(), userID, session.ID, summary)
		require.NoError(t, err)
		assert.False(t, got.Open())
		assert.Nil(t, got.ProgressRecordID)
		assert.Equal(t, 1, goals.calls)
	})

	t.Run("persist failure surfaces", func(t *testing.T) {
		t.Parallel()

		session := openSession(t, userID, courseID, moduleID)
		sessions := &mockSessionStore{
			t: t,
			getByIDFn: func(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
				return session, nil
			},
			updateFn: func(_ context.Context, _ *domain.StudySession) error {
				return errors.New("write failed")
			},
		}
		progress := &mockProgressUpdater{}
		svc := newTestService(sessions, progress, nil)

		_, err := svc.EndSession(context.Background(), userID, session.ID, summary)
		require.Error(t, err)
		assert.Equal(t, 0, progress.calls)
	})
}
