package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GoalKind determines how a learning goal's progress is computed.
type GoalKind string

// Supported goal kinds.
const (
	// GoalKindTime tracks total study time against a target in minutes.
	GoalKindTime GoalKind = "TIME"
	// GoalKindMastery tracks the latest module mastery score against a
	// target percentage. Requires a module scope.
	GoalKindMastery GoalKind = "MASTERY"
	// GoalKindCompletion tracks the number of completed study sessions
	// against a target count.
	GoalKindCompletion GoalKind = "COMPLETION"
)

// IsValid reports whether the kind is one of the supported goal kinds.
func (k GoalKind) IsValid() bool {
	switch k {
	case GoalKindTime, GoalKindMastery, GoalKindCompletion:
		return true
	default:
		return false
	}
}

// LearningGoal validation errors.
var (
	ErrGoalIDEmpty        = errors.New("learning goal ID cannot be empty")
	ErrGoalUserIDEmpty    = errors.New("learning goal user ID cannot be empty")
	ErrGoalTitleEmpty     = errors.New("learning goal title cannot be empty")
	ErrGoalInvalidKind    = errors.New("learning goal kind must be TIME, MASTERY, or COMPLETION")
	ErrGoalBadTarget      = errors.New("learning goal target value must be positive")
	ErrGoalProgressRange  = errors.New("learning goal progress must be between 0 and 1")
	ErrGoalMissingModule  = errors.New("mastery goals require a module scope")
	ErrGoalMissingScope   = errors.New("learning goal requires a course or module scope")
)

// LearningGoal is a user-authored target of kind TIME, MASTERY, or
// COMPLETION, scoped to a course or module. Progress is recomputed from
// session and progress-record data and clamped to [0, 1]; once Achieved is
// set it is never forced back to false by recomputation.
type LearningGoal struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	Title    string     `json:"title"`
	Kind     GoalKind   `json:"kind"`
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	ModuleID *uuid.UUID `json:"module_id,omitempty"`

	// TargetValue is interpreted per kind: minutes for TIME, a 0-100
	// percentage for MASTERY, a session count for COMPLETION.
	TargetValue float64 `json:"target_value"`

	Progress float64    `json:"progress"`
	Achieved bool       `json:"achieved"`
	Deadline *time.Time `json:"deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLearningGoal creates a new goal with zero progress.
// Returns an error if validation fails.
func NewLearningGoal(
	userID uuid.UUID,
	title string,
	kind GoalKind,
	courseID, moduleID *uuid.UUID,
	targetValue float64,
	deadline *time.Time,
) (*LearningGoal, error) {
	now := time.Now().UTC()
	goal := &LearningGoal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Kind:        kind,
		CourseID:    courseID,
		ModuleID:    moduleID,
		TargetValue: targetValue,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Validate checks if the LearningGoal has valid data.
func (g *LearningGoal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGoalIDEmpty
	}
	if g.UserID == uuid.Nil {
		return ErrGoalUserIDEmpty
	}
	if g.Title == "" {
		return ErrGoalTitleEmpty
	}
	if !g.Kind.IsValid() {
		return ErrGoalInvalidKind
	}
	if g.TargetValue <= 0 {
		return ErrGoalBadTarget
	}
	if g.Progress < 0 || g.Progress > 1 {
		return ErrGoalProgressRange
	}
	if g.Kind == GoalKindMastery && g.ModuleID == nil {
		return ErrGoalMissingModule
	}
	return nil
}

// Trackable reports whether the goal carries enough scope to be recomputed.
// Goals with neither module nor course set are skipped by the updater.
func (g *LearningGoal) Trackable() bool {
	return g.ModuleID != nil || g.CourseID != nil
}

// SetProgress clamps the given progress to [0, 1] and updates the achieved
// flag. A goal that is already achieved stays achieved even if the
// recomputed value falls back below 1.
func (g *LearningGoal) SetProgress(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	g.Progress = progress
	if progress >= 1 {
		g.Achieved = true
	}
	g.UpdatedAt = time.Now().UTC()
}
