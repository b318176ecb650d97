package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/generation"
)

// Common errors
var (
	ErrNilGenerator = errors.New("generator cannot be nil")
	ErrNilCardSaver = errors.New("card saver cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrEmptyContent = errors.New("lesson content cannot be empty")
)

// CardSaver defines the persistence operation the generation task needs.
// The flashcard store satisfies it.
type CardSaver interface {
	// CreateMultiple persists a batch of flashcards.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error
}

// FlashcardGenerationPayload is the serialized data stored with a
// flashcard generation task. It carries the lesson content directly so a
// recovered task can run without any other lookups.
type FlashcardGenerationPayload struct {
	UserID   uuid.UUID  `json:"user_id"`
	CourseID uuid.UUID  `json:"course_id"`
	ModuleID uuid.UUID  `json:"module_id"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`
	Content  string     `json:"content"`
}

// FlashcardGenerationTask implements the Task interface for generating
// flashcards from lesson content.
type FlashcardGenerationTask struct {
	id        uuid.UUID
	payload   FlashcardGenerationPayload
	generator generation.CardGenerator
	cardSaver CardSaver
	logger    *slog.Logger
	status    TaskStatus
}

// NewFlashcardGenerationTask creates a new flashcard generation task.
func NewFlashcardGenerationTask(
	payload FlashcardGenerationPayload,
	generator generation.CardGenerator,
	cardSaver CardSaver,
	logger *slog.Logger,
) (*FlashcardGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if cardSaver == nil {
		return nil, ErrNilCardSaver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if payload.UserID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if payload.Content == "" {
		return nil, ErrEmptyContent
	}

	return &FlashcardGenerationTask{
		id:        uuid.New(),
		payload:   payload,
		generator: generator,
		cardSaver: cardSaver,
		logger: logger.With(
			"task_type", TaskTypeFlashcardGeneration,
			"user_id", payload.UserID,
			"module_id", payload.ModuleID),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *FlashcardGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *FlashcardGenerationTask) Type() string {
	return TaskTypeFlashcardGeneration
}

// Payload returns the task data as a byte slice
func (t *FlashcardGenerationTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *FlashcardGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute generates flashcards from the payload's lesson content and saves
// them. Generated cards start with default scheduling state, so they show up
// in the owner's due queue immediately.
func (t *FlashcardGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting flashcard generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	cards, err := t.generator.GenerateCards(ctx, generation.Request{
		UserID:   t.payload.UserID,
		CourseID: t.payload.CourseID,
		ModuleID: t.payload.ModuleID,
		LessonID: t.payload.LessonID,
		Content:  t.payload.Content,
	})
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate cards", "error", err)
		return fmt.Errorf("failed to generate cards: %w", err)
	}

	if len(cards) > 0 {
		if err := t.cardSaver.CreateMultiple(ctx, cards); err != nil {
			t.status = TaskStatusFailed
			t.logger.Error("failed to save generated cards", "error", err)
			return fmt.Errorf("failed to save generated cards: %w", err)
		}
	} else {
		t.logger.Warn("generation completed but produced no cards")
	}

	t.status = TaskStatusCompleted
	t.logger.Info("flashcard generation task completed", "cards_generated", len(cards))
	return nil
}

// FlashcardGenerationTaskFactory creates FlashcardGenerationTask instances
// with shared dependencies.
type FlashcardGenerationTaskFactory struct {
	generator generation.CardGenerator
	cardSaver CardSaver
	logger    *slog.Logger
}

// NewFlashcardGenerationTaskFactory creates a new factory for
// FlashcardGenerationTasks.
func NewFlashcardGenerationTaskFactory(
	generator generation.CardGenerator,
	cardSaver CardSaver,
	logger *slog.Logger,
) *FlashcardGenerationTaskFactory {
	return &FlashcardGenerationTaskFactory{
		generator: generator,
		cardSaver: cardSaver,
		logger:    logger.With("component", "flashcard_generation_task_factory"),
	}
}

// CreateTask creates a new FlashcardGenerationTask for the given payload.
func (f *FlashcardGenerationTaskFactory) CreateTask(
	payload FlashcardGenerationPayload,
) (Task, error) {
	return NewFlashcardGenerationTask(payload, f.generator, f.cardSaver, f.logger)
}
