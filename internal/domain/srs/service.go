// Package srs implements the spaced-repetition scheduling engine: a
// simplified SM-2 variant that maps a flashcard's current scheduling state
// and a review outcome to its next state, plus the card's position in the
// remaining in-session review queue.
package srs

import (
	"errors"
	"time"

	"github.com/xelami/kouza-api/internal/domain"
)

// Common errors
var (
	ErrNilCard        = errors.New("flashcard cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// Requeue describes what the session queue should do with a card after a
// review. When Reinsert is true the card goes back into the remaining queue
// at a random position within the inclusive [MinSlot, MaxSlot] window;
// otherwise the card leaves the session and Points is credited to the
// user's profile.
type Requeue struct {
	Reinsert bool
	MinSlot  int
	MaxSlot  int
	Points   int
}

// Service defines the interface for scheduling operations.
type Service interface {
	// ApplyOutcome computes the card's next scheduling state and the queue
	// decision for the given review outcome. The input card is not
	// modified.
	ApplyOutcome(
		card *domain.Flashcard,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.Flashcard, Requeue, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: DefaultParams()}
}

// NewServiceWithParams creates a new scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// ApplyOutcome implements the Service interface.
func (s *defaultService) ApplyOutcome(
	card *domain.Flashcard,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.Flashcard, Requeue, error) {
	if card == nil {
		return nil, Requeue{}, ErrNilCard
	}
	if !outcome.IsValid() {
		return nil, Requeue{}, ErrInvalidOutcome
	}

	updated, requeue := applyOutcome(card, outcome, now, s.params)
	return updated, requeue, nil
}
