package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoal(t *testing.T, kind GoalKind) *LearningGoal {
	t.Helper()
	moduleID := uuid.New()
	goal, err := NewLearningGoal(uuid.New(), "Finish algebra module", kind, nil, &moduleID, 60, nil)
	require.NoError(t, err)
	return goal
}

func TestLearningGoalValidate(t *testing.T) {
	t.Parallel()

	moduleID := uuid.New()

	testCases := []struct {
		name     string
		mutate   func(*LearningGoal)
		expected error
	}{
		{"missing title", func(g *LearningGoal) { g.Title = "" }, ErrGoalTitleEmpty},
		{"bad kind", func(g *LearningGoal) { g.Kind = GoalKind("STREAK") }, ErrGoalInvalidKind},
		{"zero target", func(g *LearningGoal) { g.TargetValue = 0 }, ErrGoalBadTarget},
		{"negative progress", func(g *LearningGoal) { g.Progress = -0.1 }, ErrGoalProgressRange},
		{"overshoot progress", func(g *LearningGoal) { g.Progress = 1.5 }, ErrGoalProgressRange},
		{"mastery without module", func(g *LearningGoal) { g.Kind = GoalKindMastery; g.ModuleID = nil }, ErrGoalMissingModule},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			goal := &LearningGoal{
				ID:          uuid.New(),
				UserID:      uuid.New(),
				Title:       "Study an hour a day",
				Kind:        GoalKindTime,
				ModuleID:    &moduleID,
				TargetValue: 60,
			}
			tc.mutate(goal)
			assert.ErrorIs(t, goal.Validate(), tc.expected)
		})
	}
}

func TestSetProgressClampsAndFlagsAchieved(t *testing.T) {
	t.Parallel()

	goal := newTestGoal(t, GoalKindTime)

	goal.SetProgress(0.5)
	assert.Equal(t, 0.5, goal.Progress)
	assert.False(t, goal.Achieved)

	goal.SetProgress(2.4)
	assert.Equal(t, 1.0, goal.Progress)
	assert.True(t, goal.Achieved)

	goal.SetProgress(-3)
	assert.Equal(t, 0.0, goal.Progress)
}

func TestAchievedGoalStaysAchieved(t *testing.T) {
	t.Parallel()

	goal := newTestGoal(t, GoalKindCompletion)
	goal.SetProgress(1.0)
	require.True(t, goal.Achieved)

	// Underlying data changing later must not un-achieve the goal.
	goal.SetProgress(0.3)
	assert.True(t, goal.Achieved)
	assert.Equal(t, 0.3, goal.Progress)
}

func TestTrackable(t *testing.T) {
	t.Parallel()

	goal := newTestGoal(t, GoalKindTime)
	assert.True(t, goal.Trackable())

	goal.ModuleID = nil
	goal.CourseID = nil
	assert.False(t, goal.Trackable())
}
