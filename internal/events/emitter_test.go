package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewTaskRequestEvent(t *testing.T) {
	t.Parallel()

	payload := map[string]string{"module_id": "abc"}
	event, err := NewTaskRequestEvent("flashcard_generation", payload)
	require.NoError(t, err)

	assert.NotEqual(t, event.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "flashcard_generation", event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded map[string]string
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())
		h1 := &recordingHandler{}
		h2 := &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewTaskRequestEvent("flashcard_generation", nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Len(t, h1.events, 1)
		assert.Len(t, h2.events, 1)
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())
		event, err := NewTaskRequestEvent("flashcard_generation", nil)
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())
		wantErr := errors.New("handler failed")
		failing := &recordingHandler{err: wantErr}
		ok := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(ok)

		event, err := NewTaskRequestEvent("flashcard_generation", nil)
		require.NoError(t, err)
		err = emitter.EmitEvent(context.Background(), event)

		assert.ErrorIs(t, err, wantErr)
		assert.Len(t, ok.events, 1)
	})
}
