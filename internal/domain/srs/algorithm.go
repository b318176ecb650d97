package srs

import (
	"time"

	"github.com/xelami/kouza-api/internal/domain"
)

// nextEaseFactor applies the outcome's ease adjustment and enforces the
// configured floor. The floor is checked on every decrement, never only at
// creation time, so repeated lapses cannot push the ease factor below it.
func nextEaseFactor(currentEF float64, outcome domain.ReviewOutcome, params *Params) float64 {
	newEF := currentEF + params.EaseAdjustment[outcome]
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// successInterval computes the interval (in fractional days) for a card
// that has just completed its nth successful repetition. The first two
// repetitions use fixed intervals; afterwards the interval grows by the
// ease factor.
func successInterval(currentInterval float64, repetitions int, easeFactor float64, params *Params) float64 {
	switch repetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return currentInterval * easeFactor
	}
}

// nextReviewAt converts a fractional-day interval into an absolute next
// review time.
func nextReviewAt(now time.Time, intervalDays float64) time.Time {
	return now.Add(time.Duration(intervalDays * 86400 * float64(time.Second)))
}

// applyOutcome computes the card's next scheduling state and queue
// decision. It follows an immutable update pattern: the input card is never
// modified.
//
// Transition summary:
//   - again: ease -0.2 (floored), repetitions reset to 0, interval kept,
//     next review cleared; the card is requeued near the front of the
//     in-session queue.
//   - hard: ease -0.1 (floored), repetitions and interval kept; the card is
//     requeued a few slots back in the same session.
//   - good: repetitions +1, interval progresses 1, 6, then interval*ease;
//     the card leaves the session queue and is scheduled interval days out.
//   - easy: as good, plus ease +0.15 and a minimum one-day interval; leaves
//     the queue with a larger point award.
func applyOutcome(
	card *domain.Flashcard,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) (*domain.Flashcard, Requeue) {
	updated := card.Clone()
	reviewedAt := now.UTC()
	updated.LastReviewedAt = &reviewedAt
	updated.UpdatedAt = reviewedAt

	switch outcome {
	case domain.ReviewOutcomeAgain:
		updated.EaseFactor = nextEaseFactor(card.EaseFactor, outcome, params)
		updated.Repetitions = 0
		updated.NextReviewAt = nil
		return updated, Requeue{
			Reinsert: true,
			MinSlot:  params.AgainMinSlot,
			MaxSlot:  params.AgainMaxSlot,
		}

	case domain.ReviewOutcomeHard:
		updated.EaseFactor = nextEaseFactor(card.EaseFactor, outcome, params)
		return updated, Requeue{
			Reinsert: true,
			MinSlot:  params.HardMinSlot,
			MaxSlot:  params.HardMaxSlot,
		}

	case domain.ReviewOutcomeEasy:
		updated.Repetitions = card.Repetitions + 1
		// Interval progression uses the pre-bonus ease factor, matching the
		// good path; the ease bonus applies to future reviews only.
		interval := successInterval(card.Interval, updated.Repetitions, card.EaseFactor, params)
		if interval < 1 {
			interval = 1
		}
		updated.Interval = interval
		updated.EaseFactor = nextEaseFactor(card.EaseFactor, outcome, params)
		due := nextReviewAt(reviewedAt, interval)
		updated.NextReviewAt = &due
		return updated, Requeue{Points: params.EasyPoints}

	default: // domain.ReviewOutcomeGood
		updated.Repetitions = card.Repetitions + 1
		updated.Interval = successInterval(card.Interval, updated.Repetitions, card.EaseFactor, params)
		due := nextReviewAt(reviewedAt, updated.Interval)
		updated.NextReviewAt = &due
		return updated, Requeue{Points: params.GoodPoints}
	}
}
