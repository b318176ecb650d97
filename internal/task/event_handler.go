package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xelami/kouza-api/internal/events"
)

// TaskFactory creates tasks from a generation payload.
type TaskFactory interface {
	CreateTask(payload FlashcardGenerationPayload) (Task, error)
}

// TaskSubmitter accepts tasks for background processing. The TaskRunner
// satisfies it.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface.
// It turns flashcard generation request events into persisted, queued tasks.
type TaskFactoryEventHandler struct {
	taskFactory TaskFactory
	submitter   TaskSubmitter
	logger      *slog.Logger
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a new event handler that uses the given
// task factory to create tasks and submits them to the provided submitter.
func NewTaskFactoryEventHandler(
	taskFactory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		submitter:   submitter,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes flashcard generation events by creating a task from
// the event payload and submitting it for execution. Events of other types
// are ignored.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeFlashcardGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload FlashcardGenerationPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := h.taskFactory.CreateTask(payload)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"user_id", payload.UserID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", t.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", t.ID(),
		"user_id", payload.UserID,
		"event_id", event.ID)
	return nil
}
