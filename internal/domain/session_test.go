package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudySessionDefaultsStartTime(t *testing.T) {
	t.Parallel()

	session, err := NewStudySession(uuid.New(), uuid.New(), uuid.New(), time.Time{})
	require.NoError(t, err)
	assert.False(t, session.StartTime.IsZero())
	assert.True(t, session.Open())
	assert.Nil(t, session.EndTime)
}

func TestStudySessionCloseIsSingleUse(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session, err := NewStudySession(uuid.New(), uuid.New(), uuid.New(), start)
	require.NoError(t, err)

	end := start.Add(30 * time.Minute)
	require.NoError(t, session.Close(end))
	assert.False(t, session.Open())
	assert.Equal(t, 1800, session.DurationSeconds)
	require.NotNil(t, session.EndTime)
	assert.True(t, session.EndTime.Equal(end))

	// Second close is rejected so the caller can treat it as a no-op.
	err = session.Close(end.Add(time.Hour))
	assert.ErrorIs(t, err, ErrSessionAlreadyClosed)
	assert.Equal(t, 1800, session.DurationSeconds)
}

func TestStudySessionCloseBeforeStartClampsToZero(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session, err := NewStudySession(uuid.New(), uuid.New(), uuid.New(), start)
	require.NoError(t, err)

	require.NoError(t, session.Close(start.Add(-time.Minute)))
	assert.Equal(t, 0, session.DurationSeconds)
}

func TestStudySessionValidate(t *testing.T) {
	t.Parallel()

	_, err := NewStudySession(uuid.Nil, uuid.New(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSessionUserIDEmpty)

	_, err = NewStudySession(uuid.New(), uuid.Nil, uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSessionCourseIDEmpty)

	_, err = NewStudySession(uuid.New(), uuid.New(), uuid.Nil, time.Now())
	assert.ErrorIs(t, err, ErrSessionModuleIDEmpty)
}
