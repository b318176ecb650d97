package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/store"
)

type mockGoalStore struct {
	goals map[uuid.UUID]*domain.LearningGoal

	unachieved []*domain.LearningGoal
	updated    []*domain.LearningGoal
	deleted    []uuid.UUID
	updateErr  map[uuid.UUID]error
}

func newMockGoalStore(goals ...*domain.LearningGoal) *mockGoalStore {
	m := &mockGoalStore{goals: make(map[uuid.UUID]*domain.LearningGoal)}
	for _, g := range goals {
		m.goals[g.ID] = g
		if !g.Achieved {
			m.unachieved = append(m.unachieved, g)
		}
	}
	return m
}

func (m *mockGoalStore) Create(_ context.Context, goal *domain.LearningGoal) error {
	m.goals[goal.ID] = goal
	return nil
}

func (m *mockGoalStore) GetByID(_ context.Context, id uuid.UUID) (*domain.LearningGoal, error) {
	goal, ok := m.goals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return goal, nil
}

func (m *mockGoalStore) Update(_ context.Context, goal *domain.LearningGoal) error {
	if err := m.updateErr[goal.ID]; err != nil {
		return err
	}
	m.updated = append(m.updated, goal)
	return nil
}

func (m *mockGoalStore) Delete(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockGoalStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.LearningGoal, error) {
	var out []*domain.LearningGoal
	for _, g := range m.goals {
		out = append(out, g)
	}
	return out, nil
}

func (m *mockGoalStore) ListUnachieved(_ context.Context, _ uuid.UUID) ([]*domain.LearningGoal, error) {
	return m.unachieved, nil
}

func (m *mockGoalStore) WithTx(_ *sql.Tx) store.GoalStore { return m }

// goalSessionStore serves the completed-session queries RecomputeForUser
// issues; the open-session methods are unused by goal logic.
type goalSessionStore struct {
	byModule map[uuid.UUID][]*domain.StudySession
	byCourse map[uuid.UUID][]*domain.StudySession
	err      error
}

func (m *goalSessionStore) Create(_ context.Context, _ *domain.StudySession) error { return nil }

func (m *goalSessionStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.StudySession, error) {
	return nil, store.ErrNotFound
}

func (m *goalSessionStore) Update(_ context.Context, _ *domain.StudySession) error { return nil }

func (m *goalSessionStore) FindOpen(
	_ context.Context, _, _, _ uuid.UUID,
) (*domain.StudySession, error) {
	return nil, store.ErrNotFound
}

func (m *goalSessionStore) ListCompletedByModule(
	_ context.Context, _, moduleID uuid.UUID,
) ([]*domain.StudySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byModule[moduleID], nil
}

func (m *goalSessionStore) ListCompletedByCourse(
	_ context.Context, _, courseID uuid.UUID,
) ([]*domain.StudySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byCourse[courseID], nil
}

func (m *goalSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return m }

func uuidPtr(t *testing.T) *uuid.UUID {
	t.Helper()
	id := uuid.New()
	return &id
}

func newGoal(
	t *testing.T,
	userID uuid.UUID,
	kind domain.GoalKind,
	courseID, moduleID *uuid.UUID,
	target float64,
) *domain.LearningGoal {
	t.Helper()
	goal, err := domain.NewLearningGoal(userID, "test goal", kind, courseID, moduleID, target, nil)
	require.NoError(t, err)
	return goal
}

func sessionsOf(durations ...int) []*domain.StudySession {
	out := make([]*domain.StudySession, 0, len(durations))
	for _, d := range durations {
		out = append(out, &domain.StudySession{DurationSeconds: d})
	}
	return out
}

func TestRecomputeForUser(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("time goal from session durations", func(t *testing.T) {
		t.Parallel()

		moduleID := uuidPtr(t)
		// Two 900s sessions against a 60 minute target: halfway there.
		goal := newGoal(t, userID, domain.GoalKindTime, nil, moduleID, 60)
		goalStore := newMockGoalStore(goal)
		sessions := &goalSessionStore{
			byModule: map[uuid.UUID][]*domain.StudySession{*moduleID: sessionsOf(900, 900)},
		}
		svc := NewGoalService(goalStore, sessions, &mockProgressStore{}, nil)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		require.Len(t, goalStore.updated, 1)
		assert.InDelta(t, 0.5, goal.Progress, 1e-9)
		assert.False(t, goal.Achieved)
	})

	t.Run("time goal falls back to course scope", func(t *testing.T) {
		t.Parallel()

		courseID := uuidPtr(t)
		goal := newGoal(t, userID, domain.GoalKindTime, courseID, nil, 10)
		goalStore := newMockGoalStore(goal)
		sessions := &goalSessionStore{
			byCourse: map[uuid.UUID][]*domain.StudySession{*courseID: sessionsOf(600)},
		}
		svc := NewGoalService(goalStore, sessions, &mockProgressStore{}, nil)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		require.Len(t, goalStore.updated, 1)
		assert.InDelta(t, 1.0, goal.Progress, 1e-9)
		assert.True(t, goal.Achieved)
	})

	t.Run("mastery goal from latest record", func(t *testing.T) {
		t.Parallel()

		moduleID := uuidPtr(t)
		goal := newGoal(t, userID, domain.GoalKindMastery, nil, moduleID, 80)
		goalStore := newMockGoalStore(goal)
		latest := &domain.ProgressRecord{ID: uuid.New(), MasteryScore: intPtr(60)}
		svc := NewGoalService(
			goalStore,
			&goalSessionStore{},
			&mockProgressStore{history: []*domain.ProgressRecord{latest}},
			nil,
		)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		require.Len(t, goalStore.updated, 1)
		assert.InDelta(t, 0.75, goal.Progress, 1e-9)
	})

	t.Run("mastery goal with no records is skipped", func(t *testing.T) {
		t.Parallel()

		goal := newGoal(t, userID, domain.GoalKindMastery, nil, uuidPtr(t), 80)
		goalStore := newMockGoalStore(goal)
		svc := NewGoalService(goalStore, &goalSessionStore{}, &mockProgressStore{}, nil)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		assert.Empty(t, goalStore.updated)
		assert.Zero(t, goal.Progress)
	})

	t.Run("completion goal clamps past the target", func(t *testing.T) {
		t.Parallel()

		moduleID := uuidPtr(t)
		goal := newGoal(t, userID, domain.GoalKindCompletion, nil, moduleID, 2)
		goalStore := newMockGoalStore(goal)
		sessions := &goalSessionStore{
			byModule: map[uuid.UUID][]*domain.StudySession{*moduleID: sessionsOf(60, 60, 60)},
		}
		svc := NewGoalService(goalStore, sessions, &mockProgressStore{}, nil)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		assert.InDelta(t, 1.0, goal.Progress, 1e-9)
		assert.True(t, goal.Achieved)
	})

	t.Run("unscoped goal is skipped", func(t *testing.T) {
		t.Parallel()

		goal := newGoal(t, userID, domain.GoalKindTime, nil, nil, 30)
		goalStore := newMockGoalStore(goal)
		svc := NewGoalService(goalStore, &goalSessionStore{}, &mockProgressStore{}, nil)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		assert.Empty(t, goalStore.updated)
	})

	t.Run("one broken goal does not block the rest", func(t *testing.T) {
		t.Parallel()

		brokenModule := uuidPtr(t)
		okModule := uuidPtr(t)
		broken := newGoal(t, userID, domain.GoalKindMastery, nil, brokenModule, 80)
		healthy := newGoal(t, userID, domain.GoalKindCompletion, nil, okModule, 1)

		goalStore := &mockGoalStore{
			goals: map[uuid.UUID]*domain.LearningGoal{
				broken.ID:  broken,
				healthy.ID: healthy,
			},
			unachieved: []*domain.LearningGoal{broken, healthy},
		}
		// Latest() errors for the broken goal's module via a store that
		// fails every progress lookup.
		svc := NewGoalService(
			goalStore,
			&goalSessionStore{
				byModule: map[uuid.UUID][]*domain.StudySession{*okModule: sessionsOf(60)},
			},
			&failingProgressStore{},
			nil,
		)

		require.NoError(t, svc.RecomputeForUser(context.Background(), userID))
		require.Len(t, goalStore.updated, 1)
		assert.Equal(t, healthy.ID, goalStore.updated[0].ID)
	})
}

// failingProgressStore errors on every read, for exercising the skip path.
type failingProgressStore struct {
	mockProgressStore
}

func (f *failingProgressStore) Latest(
	_ context.Context, _, _ uuid.UUID,
) (*domain.ProgressRecord, error) {
	return nil, errors.New("progress store unavailable")
}

func TestGoalOwnership(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	stranger := uuid.New()
	goal := newGoal(t, owner, domain.GoalKindTime, nil, uuidPtr(t), 30)
	goalStore := newMockGoalStore(goal)
	svc := NewGoalService(goalStore, &goalSessionStore{}, &mockProgressStore{}, nil)

	_, err := svc.GetGoal(context.Background(), stranger, goal.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	err = svc.DeleteGoal(context.Background(), stranger, goal.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Empty(t, goalStore.deleted)

	_, err = svc.GetGoal(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateGoal(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goal := newGoal(t, userID, domain.GoalKindTime, nil, uuidPtr(t), 30)
	goalStore := newMockGoalStore(goal)
	svc := NewGoalService(goalStore, &goalSessionStore{}, &mockProgressStore{}, nil)

	title := "renamed goal"
	target := 45.0
	deadline := time.Now().UTC().Add(7 * 24 * time.Hour)

	updated, err := svc.UpdateGoal(context.Background(), userID, goal.ID, GoalUpdate{
		Title:       &title,
		TargetValue: &target,
		Deadline:    &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed goal", updated.Title)
	assert.Equal(t, 45.0, updated.TargetValue)
	require.NotNil(t, updated.Deadline)
	assert.True(t, updated.Deadline.Equal(deadline))
	require.Len(t, goalStore.updated, 1)

	// Partial updates leave the other fields alone.
	newTarget := 90.0
	updated, err = svc.UpdateGoal(context.Background(), userID, goal.ID, GoalUpdate{
		TargetValue: &newTarget,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed goal", updated.Title)
	assert.Equal(t, 90.0, updated.TargetValue)
}
