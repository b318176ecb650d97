package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinEaseFactor is the hard floor for a flashcard's ease factor.
// Decrements never take the ease factor below this value; anything lower
// would produce runaway short intervals.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the ease factor assigned to freshly created cards.
const DefaultEaseFactor = 2.5

// Flashcard-specific validation errors.
var (
	ErrCardIDEmpty       = errors.New("flashcard ID cannot be empty")
	ErrCardUserIDEmpty   = errors.New("flashcard user ID cannot be empty")
	ErrCardCourseIDEmpty = errors.New("flashcard course ID cannot be empty")
	ErrCardModuleIDEmpty = errors.New("flashcard module ID cannot be empty")
	ErrCardQuestionEmpty = errors.New("flashcard question cannot be empty")
	ErrCardAnswerEmpty   = errors.New("flashcard answer cannot be empty")
	ErrCardEaseTooLow    = errors.New("flashcard ease factor cannot be below 1.3")
	ErrCardBadInterval   = errors.New("flashcard interval cannot be negative")
	ErrCardBadRepetition = errors.New("flashcard repetitions cannot be negative")
)

// Flashcard is a question/answer pair owned by a user and scoped to a
// course/module (and optionally a lesson). Its scheduling fields are
// mutated exclusively by the srs scheduler after each review.
type Flashcard struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	CourseID uuid.UUID  `json:"course_id"`
	ModuleID uuid.UUID  `json:"module_id"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`

	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Scheduling state. Interval is in fractional days; NextReviewAt is nil
	// until the card graduates from the in-session queue with a good or easy
	// outcome.
	EaseFactor     float64    `json:"ease_factor"`
	Interval       float64    `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with default scheduling state.
// The card is due immediately: zero interval, no review history.
// Returns an error if validation fails.
func NewFlashcard(
	userID, courseID, moduleID uuid.UUID,
	lessonID *uuid.UUID,
	question, answer string,
) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:          uuid.New(),
		UserID:      userID,
		CourseID:    courseID,
		ModuleID:    moduleID,
		LessonID:    lessonID,
		Question:    question,
		Answer:      answer,
		EaseFactor:  DefaultEaseFactor,
		Interval:    0,
		Repetitions: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}
	if c.CourseID == uuid.Nil {
		return ErrCardCourseIDEmpty
	}
	if c.ModuleID == uuid.Nil {
		return ErrCardModuleIDEmpty
	}
	if c.Question == "" {
		return ErrCardQuestionEmpty
	}
	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}
	if c.EaseFactor < MinEaseFactor {
		return ErrCardEaseTooLow
	}
	if c.Interval < 0 {
		return ErrCardBadInterval
	}
	if c.Repetitions < 0 {
		return ErrCardBadRepetition
	}
	return nil
}

// Clone returns a copy of the card. The srs scheduler follows an immutable
// update pattern: it clones the card, applies the transition to the copy,
// and returns it, leaving the original untouched.
func (c *Flashcard) Clone() *Flashcard {
	clone := *c
	if c.LessonID != nil {
		lessonID := *c.LessonID
		clone.LessonID = &lessonID
	}
	if c.LastReviewedAt != nil {
		t := *c.LastReviewedAt
		clone.LastReviewedAt = &t
	}
	if c.NextReviewAt != nil {
		t := *c.NextReviewAt
		clone.NextReviewAt = &t
	}
	return &clone
}
