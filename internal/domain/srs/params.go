package srs

import (
	"github.com/xelami/kouza-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MinEaseFactor is the hard floor enforced on every ease decrement.
	MinEaseFactor float64

	// EaseAdjustment maps each review outcome to the ease factor delta it
	// applies. Good leaves the ease factor untouched.
	EaseAdjustment map[domain.ReviewOutcome]float64

	// FirstInterval and SecondInterval are the fixed intervals (in days)
	// awarded on the first and second successful repetitions. Later
	// repetitions multiply the current interval by the ease factor.
	FirstInterval  float64
	SecondInterval float64

	// In-session requeue windows. A card graded again is reinserted at a
	// random position within [AgainMinSlot, AgainMaxSlot]; a card graded
	// hard within [HardMinSlot, HardMaxSlot]. Both windows are inclusive.
	AgainMinSlot int
	AgainMaxSlot int
	HardMinSlot  int
	HardMaxSlot  int

	// Points awarded to the user's profile when a card graduates from the
	// session queue.
	GoodPoints int
	EasyPoints int
}

// DefaultParams returns the standard scheduling parameters.
func DefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,

		EaseAdjustment: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeAgain: -0.20,
			domain.ReviewOutcomeHard:  -0.10,
			domain.ReviewOutcomeGood:  0.0,
			domain.ReviewOutcomeEasy:  0.15,
		},

		FirstInterval:  1,
		SecondInterval: 6,

		AgainMinSlot: 0,
		AgainMaxSlot: 2,
		HardMinSlot:  5,
		HardMaxSlot:  7,

		GoodPoints: 10,
		EasyPoints: 20,
	}
}
