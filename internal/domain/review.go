package domain

// ReviewOutcome represents the result of a single flashcard review.
// The four grades are ordered from total lapse to effortless recall and
// drive every scheduling and scoring decision in the system.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// IsValid reports whether the outcome is one of the four known grades.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeAgain, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// Successful reports whether the outcome counts as a successful recall.
// Good and easy exit the session queue and feed the retention rate;
// again and hard keep the card in the current sitting.
func (o ReviewOutcome) Successful() bool {
	return o == ReviewOutcomeGood || o == ReviewOutcomeEasy
}
