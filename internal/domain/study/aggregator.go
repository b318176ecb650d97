// Package study tracks the state of one flashcard study session: the
// ordered queue of cards still to show, and the running aggregate of
// review outcomes that feeds the retention estimator when the session
// ends. Nothing here outlives a single session.
package study

import (
	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain"
)

// ReviewEvent is one entry in the session's per-card history log.
type ReviewEvent struct {
	CardID           uuid.UUID            `json:"card_id"`
	Outcome          domain.ReviewOutcome `json:"outcome"`
	TimeSpentSeconds int                  `json:"time_spent_seconds"`
}

// OutcomeCounts holds per-outcome review totals for a session.
type OutcomeCounts struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
}

// SessionSummary is the aggregate handed to the retention estimator and
// persisted when a session closes. FirstPassRate is only meaningful when
// UniqueCards is greater than zero.
type SessionSummary struct {
	Counts           OutcomeCounts `json:"counts"`
	UniqueCards      int           `json:"unique_cards"`
	TotalReviews     int           `json:"total_reviews"`
	TotalTimeSeconds int           `json:"total_time_seconds"`
	AverageSeconds   float64       `json:"average_seconds"`
	FirstPassRate    float64       `json:"first_pass_rate"`
	Log              []ReviewEvent `json:"log"`
}

// Aggregator accumulates per-review outcomes during one study session.
// It tracks per-outcome counts, unique cards touched, total and average
// time per card, and an ordered log of every individual review event.
type Aggregator struct {
	counts           OutcomeCounts
	firstOutcomes    map[uuid.UUID]domain.ReviewOutcome
	totalReviews     int
	totalTimeSeconds int
	log              []ReviewEvent
}

// NewAggregator creates an empty session aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		firstOutcomes: make(map[uuid.UUID]domain.ReviewOutcome),
	}
}

// Record registers one review: it increments the matching outcome counter,
// adds the time spent, and appends a log entry. The first outcome per card
// is remembered separately for the initial-pass retention rate.
func (a *Aggregator) Record(cardID uuid.UUID, outcome domain.ReviewOutcome, timeSpentSeconds int) {
	switch outcome {
	case domain.ReviewOutcomeAgain:
		a.counts.Again++
	case domain.ReviewOutcomeHard:
		a.counts.Hard++
	case domain.ReviewOutcomeGood:
		a.counts.Good++
	case domain.ReviewOutcomeEasy:
		a.counts.Easy++
	}

	if _, seen := a.firstOutcomes[cardID]; !seen {
		a.firstOutcomes[cardID] = outcome
	}

	a.totalReviews++
	a.totalTimeSeconds += timeSpentSeconds
	a.log = append(a.log, ReviewEvent{
		CardID:           cardID,
		Outcome:          outcome,
		TimeSpentSeconds: timeSpentSeconds,
	})
}

// TotalReviews returns the number of reviews recorded so far.
func (a *Aggregator) TotalReviews() int {
	return a.totalReviews
}

// AverageSeconds returns the running average time per review.
func (a *Aggregator) AverageSeconds() float64 {
	if a.totalReviews == 0 {
		return 0
	}
	return float64(a.totalTimeSeconds) / float64(a.totalReviews)
}

// FirstPassRate returns the percentage (0-100) of unique cards whose first
// outcome this session was good or easy. Re-attempts after again/hard do
// not count. ok is false when no cards have been reviewed.
func (a *Aggregator) FirstPassRate() (float64, bool) {
	if len(a.firstOutcomes) == 0 {
		return 0, false
	}

	passed := 0
	for _, outcome := range a.firstOutcomes {
		if outcome.Successful() {
			passed++
		}
	}
	return float64(passed) / float64(len(a.firstOutcomes)) * 100, true
}

// Summary produces the session aggregate for persistence and retention
// estimation.
func (a *Aggregator) Summary() SessionSummary {
	rate, _ := a.FirstPassRate()
	return SessionSummary{
		Counts:           a.counts,
		UniqueCards:      len(a.firstOutcomes),
		TotalReviews:     a.totalReviews,
		TotalTimeSeconds: a.totalTimeSeconds,
		AverageSeconds:   a.AverageSeconds(),
		FirstPassRate:    rate,
		Log:              append([]ReviewEvent(nil), a.log...),
	}
}
