package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudySession validation errors.
var (
	ErrSessionIDEmpty       = errors.New("study session ID cannot be empty")
	ErrSessionUserIDEmpty   = errors.New("study session user ID cannot be empty")
	ErrSessionCourseIDEmpty = errors.New("study session course ID cannot be empty")
	ErrSessionModuleIDEmpty = errors.New("study session module ID cannot be empty")
	ErrSessionBadDuration   = errors.New("study session duration cannot be negative")
	ErrSessionAlreadyClosed = errors.New("study session is already closed")
)

// StudySession is one continuous review interval for a (user, course,
// module) triple. At most one open session (nil EndTime) exists per triple
// at a time; callers treat session creation as find-or-create.
type StudySession struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	ModuleID uuid.UUID `json:"module_id"`

	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`

	// ProgressRecordID links the session to the daily progress record its
	// summary fed, once the retention estimator has run.
	ProgressRecordID *uuid.UUID `json:"progress_record_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStudySession creates a new open session starting at startTime.
// Returns an error if validation fails.
func NewStudySession(userID, courseID, moduleID uuid.UUID, startTime time.Time) (*StudySession, error) {
	now := time.Now().UTC()
	if startTime.IsZero() {
		startTime = now
	}

	session := &StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		ModuleID:  moduleID,
		StartTime: startTime.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}
	if s.CourseID == uuid.Nil {
		return ErrSessionCourseIDEmpty
	}
	if s.ModuleID == uuid.Nil {
		return ErrSessionModuleIDEmpty
	}
	if s.DurationSeconds < 0 {
		return ErrSessionBadDuration
	}
	return nil
}

// Open reports whether the session is still in progress.
func (s *StudySession) Open() bool {
	return s.EndTime == nil
}

// Close sets the end time and computed duration. Closing an already-closed
// session returns ErrSessionAlreadyClosed so callers can treat the second
// close as a no-op success rather than double-counting time.
func (s *StudySession) Close(endTime time.Time) error {
	if !s.Open() {
		return ErrSessionAlreadyClosed
	}

	endTime = endTime.UTC()
	if endTime.Before(s.StartTime) {
		endTime = s.StartTime
	}

	s.EndTime = &endTime
	s.DurationSeconds = int(endTime.Sub(s.StartTime).Seconds())
	s.UpdatedAt = time.Now().UTC()
	return nil
}
