package study

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/domain"
)

func TestAggregatorCountsAndAverage(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	cardA, cardB := uuid.New(), uuid.New()

	agg.Record(cardA, domain.ReviewOutcomeAgain, 12)
	agg.Record(cardB, domain.ReviewOutcomeGood, 8)
	agg.Record(cardA, domain.ReviewOutcomeGood, 4)

	summary := agg.Summary()
	assert.Equal(t, OutcomeCounts{Again: 1, Good: 2}, summary.Counts)
	assert.Equal(t, 2, summary.UniqueCards)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.Equal(t, 24, summary.TotalTimeSeconds)
	assert.InDelta(t, 8.0, summary.AverageSeconds, 1e-9)

	require.Len(t, summary.Log, 3)
	assert.Equal(t, ReviewEvent{CardID: cardA, Outcome: domain.ReviewOutcomeAgain, TimeSpentSeconds: 12}, summary.Log[0])
	assert.Equal(t, ReviewEvent{CardID: cardA, Outcome: domain.ReviewOutcomeGood, TimeSpentSeconds: 4}, summary.Log[2])
}

func TestFirstPassRateUsesFirstOutcomeOnly(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()

	// 10 unique cards: 6 pass on first sight, 4 do not. Later re-attempts
	// must not change the rate.
	for i := 0; i < 6; i++ {
		agg.Record(uuid.New(), domain.ReviewOutcomeGood, 5)
	}
	failed := make([]uuid.UUID, 4)
	for i := range failed {
		failed[i] = uuid.New()
		outcome := domain.ReviewOutcomeAgain
		if i%2 == 0 {
			outcome = domain.ReviewOutcomeHard
		}
		agg.Record(failed[i], outcome, 5)
	}
	for _, id := range failed {
		agg.Record(id, domain.ReviewOutcomeEasy, 5)
	}

	rate, ok := agg.FirstPassRate()
	require.True(t, ok)
	assert.InDelta(t, 60.0, rate, 1e-9)
}

func TestFirstPassRateEmptySession(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	rate, ok := agg.FirstPassRate()
	assert.False(t, ok)
	assert.Zero(t, rate)
	assert.Zero(t, agg.AverageSeconds())
}
