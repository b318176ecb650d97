package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		signals  []Signal
		expected int
		ok       bool
	}{
		{
			name:    "no signals",
			signals: nil,
			ok:      false,
		},
		{
			name:     "single session signal",
			signals:  []Signal{{Value: 60, Weight: 900}},
			expected: 60,
			ok:       true,
		},
		{
			name: "session blended with prior record",
			signals: []Signal{
				{Value: 80, Weight: 600},
				{Value: 40, Weight: 600},
			},
			expected: 60,
			ok:       true,
		},
		{
			name: "quiz signal carries fixed nominal weight",
			signals: []Signal{
				{Value: 100, Weight: 900},
				{Value: 50, Weight: QuizSignalWeight},
			},
			expected: 88, // (100*900 + 50*300) / 1200 = 87.5 rounded
			ok:       true,
		},
		{
			name: "zero weight signals ignored",
			signals: []Signal{
				{Value: 100, Weight: 0},
				{Value: 30, Weight: 120},
			},
			expected: 30,
			ok:       true,
		},
		{
			name:    "only zero weight signals",
			signals: []Signal{{Value: 100, Weight: 0}},
			ok:      false,
		},
		{
			name: "out of range values clamped",
			signals: []Signal{
				{Value: 150, Weight: 60},
				{Value: -20, Weight: 60},
			},
			expected: 50,
			ok:       true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, ok := Aggregate(tc.signals)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestAggregateAlwaysInBounds(t *testing.T) {
	t.Parallel()

	// Any combination of clamped signals stays in [0, 100].
	combos := [][]Signal{
		{{Value: 0, Weight: 1}},
		{{Value: 100, Weight: 10000}},
		{{Value: 100, Weight: 1}, {Value: 100, Weight: 1e9}},
		{{Value: -500, Weight: 3}, {Value: 700, Weight: 9}},
	}
	for _, signals := range combos {
		result, ok := Aggregate(signals)
		assert.True(t, ok)
		assert.GreaterOrEqual(t, result, 0)
		assert.LessOrEqual(t, result, 100)
	}
}
