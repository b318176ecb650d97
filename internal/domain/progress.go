package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProgressRecord validation errors.
var (
	ErrProgressIDEmpty       = errors.New("progress record ID cannot be empty")
	ErrProgressUserIDEmpty   = errors.New("progress record user ID cannot be empty")
	ErrProgressModuleIDEmpty = errors.New("progress record module ID cannot be empty")
	ErrProgressScoreRange    = errors.New("progress record scores must be between 0 and 100")
	ErrProgressBadTimeSpent  = errors.New("progress record time spent cannot be negative")
)

// ProgressRecord is the durable daily snapshot of a user's mastery for a
// module. At most one record exists per (user, module, calendar day);
// same-day updates overwrite in place and a new day starts a new record.
//
// RetentionRate and MasteryScore are written equal by the weighted
// flashcard-session path. The quiz-only path overwrites MasteryScore
// without recomputing RetentionRate, so the two fields can diverge after a
// quiz-only update; this mirrors the upstream behavior and is deliberately
// left unreconciled.
type ProgressRecord struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	ModuleID uuid.UUID `json:"module_id"`

	RetentionRate    *int      `json:"retention_rate,omitempty"`
	MasteryScore     *int      `json:"mastery_score,omitempty"`
	QuizScore        *int      `json:"quiz_score,omitempty"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	RecordedAt       time.Time `json:"recorded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProgressRecord creates an empty progress record for the given scope,
// recorded at the given time.
func NewProgressRecord(userID, courseID, moduleID uuid.UUID, recordedAt time.Time) (*ProgressRecord, error) {
	now := time.Now().UTC()
	record := &ProgressRecord{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		ModuleID:   moduleID,
		RecordedAt: recordedAt.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
func (r *ProgressRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrProgressIDEmpty
	}
	if r.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}
	if r.ModuleID == uuid.Nil {
		return ErrProgressModuleIDEmpty
	}
	for _, score := range []*int{r.RetentionRate, r.MasteryScore, r.QuizScore} {
		if score != nil && (*score < 0 || *score > 100) {
			return ErrProgressScoreRange
		}
	}
	if r.TimeSpentSeconds < 0 {
		return ErrProgressBadTimeSpent
	}
	return nil
}

// SameDay reports whether the record belongs to the same UTC calendar day
// as t. Used by the upsert policy: same-day writes overwrite in place.
func (r *ProgressRecord) SameDay(t time.Time) bool {
	ry, rm, rd := r.RecordedAt.UTC().Date()
	ty, tm, td := t.UTC().Date()
	return ry == ty && rm == tm && rd == td
}
