package task

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/events"
)

type stubFactory struct {
	task    Task
	err     error
	payload FlashcardGenerationPayload
	called  bool
}

func (f *stubFactory) CreateTask(payload FlashcardGenerationPayload) (Task, error) {
	f.called = true
	f.payload = payload
	return f.task, f.err
}

type stubSubmitter struct {
	submitted []Task
	err       error
}

func (s *stubSubmitter) Submit(_ context.Context, t Task) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, t)
	return nil
}

func TestTaskFactoryEventHandler(t *testing.T) {
	t.Parallel()

	newTask := func(t *testing.T) Task {
		t.Helper()
		task, err := NewFlashcardGenerationTask(
			validPayload(), &mockGenerator{}, &mockCardSaver{}, slog.Default())
		require.NoError(t, err)
		return task
	}

	t.Run("creates and submits task", func(t *testing.T) {
		t.Parallel()
		factory := &stubFactory{task: newTask(t)}
		submitter := &stubSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		payload := validPayload()
		event, err := events.NewTaskRequestEvent(TaskTypeFlashcardGeneration, payload)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Equal(t, payload.UserID, factory.payload.UserID)
		assert.Equal(t, payload.Content, factory.payload.Content)
		assert.Len(t, submitter.submitted, 1)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		t.Parallel()
		factory := &stubFactory{}
		submitter := &stubSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		event, err := events.NewTaskRequestEvent("some_other_type", nil)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.False(t, factory.called)
		assert.Empty(t, submitter.submitted)
	})

	t.Run("propagates factory errors", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("bad payload")
		factory := &stubFactory{err: wantErr}
		handler := NewTaskFactoryEventHandler(factory, &stubSubmitter{}, slog.Default())

		event, err := events.NewTaskRequestEvent(TaskTypeFlashcardGeneration, validPayload())
		require.NoError(t, err)

		assert.ErrorIs(t, handler.HandleEvent(context.Background(), event), wantErr)
	})

	t.Run("propagates submit errors", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("queue full")
		factory := &stubFactory{task: newTask(t)}
		submitter := &stubSubmitter{err: wantErr}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		event, err := events.NewTaskRequestEvent(TaskTypeFlashcardGeneration, validPayload())
		require.NoError(t, err)

		assert.ErrorIs(t, handler.HandleEvent(context.Background(), event), wantErr)
	})
}
