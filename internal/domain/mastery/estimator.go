// Package mastery computes module-level retention from heterogeneous
// signals. Each signal is a 0-100 percentage paired with a weight (seconds
// of study backing it); the aggregate is their time-weighted average.
package mastery

import "math"

// QuizSignalWeight is the fixed nominal weight, in seconds, assigned to a
// historical quiz score regardless of how long the quiz actually took.
const QuizSignalWeight = 300

// Signal is one retention-equivalent observation: a percentage in [0, 100]
// and the weight it carries in the blend.
type Signal struct {
	Value  float64
	Weight float64
}

// Aggregate blends the signals into a single 0-100 retention percentage,
// rounded to the nearest integer. Signals with non-positive weight are
// ignored; values are clamped into [0, 100] before blending so a bad input
// can never push the aggregate out of range. ok is false when no usable
// signal exists.
func Aggregate(signals []Signal) (int, bool) {
	var weightedSum, totalWeight float64
	for _, s := range signals {
		if s.Weight <= 0 {
			continue
		}
		value := s.Value
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		weightedSum += value * s.Weight
		totalWeight += s.Weight
	}

	if totalWeight == 0 {
		return 0, false
	}

	result := int(math.Round(weightedSum / totalWeight))
	if result < 0 {
		result = 0
	}
	if result > 100 {
		result = 100
	}
	return result, true
}
