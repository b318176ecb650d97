package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidReviewOutcome is returned when a review outcome is not one of
	// again, hard, good, easy.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")

	// ErrUnauthorized is returned when an operation touches an entity the
	// acting user does not own.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// validationErrors lists every sentinel that signals invalid entity data.
// The API layer uses this to translate domain failures into 400 responses.
var validationErrors = []error{
	ErrValidation,
	ErrInvalidID,
	ErrInvalidEmail,
	ErrInvalidReviewOutcome,
	ErrEmptyUserID,
	ErrEmptyEmail,
	ErrEmptyPassword,
	ErrPasswordTooShort,
	ErrPasswordTooLong,
	ErrNegativePoints,
	ErrCardIDEmpty,
	ErrCardUserIDEmpty,
	ErrCardCourseIDEmpty,
	ErrCardModuleIDEmpty,
	ErrCardQuestionEmpty,
	ErrCardAnswerEmpty,
	ErrCardEaseTooLow,
	ErrCardBadInterval,
	ErrCardBadRepetition,
	ErrSessionIDEmpty,
	ErrSessionUserIDEmpty,
	ErrSessionCourseIDEmpty,
	ErrSessionModuleIDEmpty,
	ErrSessionBadDuration,
	ErrProgressIDEmpty,
	ErrProgressUserIDEmpty,
	ErrProgressModuleIDEmpty,
	ErrProgressScoreRange,
	ErrProgressBadTimeSpent,
	ErrGoalIDEmpty,
	ErrGoalUserIDEmpty,
	ErrGoalTitleEmpty,
	ErrGoalInvalidKind,
	ErrGoalBadTarget,
	ErrGoalProgressRange,
	ErrGoalMissingModule,
	ErrGoalMissingScope,
}

// IsValidationError reports whether err is, or wraps, one of the domain
// validation sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
