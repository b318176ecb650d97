package study

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/domain/srs"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestQueueNextPopsInOrder(t *testing.T) {
	t.Parallel()

	cards := ids(3)
	q := NewQueue(cards)

	for i := 0; i < 3; i++ {
		card, err := q.Next()
		require.NoError(t, err)
		assert.Equal(t, cards[i], card)
	}

	assert.True(t, q.Empty())
	_, err := q.Next()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueueReinsertAgainWindow(t *testing.T) {
	t.Parallel()

	// Deterministic rng pinned to the top of the window.
	cards := ids(10)
	q := NewQueue(cards, WithRandIntN(func(n int) int { return n - 1 }))

	card, err := q.Next()
	require.NoError(t, err)

	q.Reinsert(card, srs.Requeue{Reinsert: true, MinSlot: 0, MaxSlot: 2})

	remaining := q.Remaining()
	require.Len(t, remaining, 10)
	assert.Equal(t, card, remaining[2], "card must land within the first 3 slots")
}

func TestQueueReinsertHardWindow(t *testing.T) {
	t.Parallel()

	for pick := 0; pick < 3; pick++ {
		cards := ids(10)
		q := NewQueue(cards, WithRandIntN(func(int) int { return pick }))

		card, err := q.Next()
		require.NoError(t, err)

		q.Reinsert(card, srs.Requeue{Reinsert: true, MinSlot: 5, MaxSlot: 7})

		remaining := q.Remaining()
		require.Len(t, remaining, 10)
		assert.Equal(t, card, remaining[5+pick])
	}
}

func TestQueueReinsertClampsToShortQueue(t *testing.T) {
	t.Parallel()

	cards := ids(3)
	q := NewQueue(cards)

	card, err := q.Next()
	require.NoError(t, err)

	// Window [5,7] on a 2-card queue degrades to appending at the end.
	q.Reinsert(card, srs.Requeue{Reinsert: true, MinSlot: 5, MaxSlot: 7})

	remaining := q.Remaining()
	require.Len(t, remaining, 3)
	assert.Equal(t, card, remaining[2])
}

func TestQueueReinsertIgnoresDiscardDecision(t *testing.T) {
	t.Parallel()

	cards := ids(2)
	q := NewQueue(cards)

	card, err := q.Next()
	require.NoError(t, err)

	q.Reinsert(card, srs.Requeue{Points: 10})
	assert.Equal(t, 1, q.Len())
}

func TestQueueReinsertWindowBounds(t *testing.T) {
	t.Parallel()

	// Whatever the rng does, the card must land inside the clamped window.
	for trial := 0; trial < 50; trial++ {
		cards := ids(12)
		q := NewQueue(cards)

		card, err := q.Next()
		require.NoError(t, err)

		q.Reinsert(card, srs.Requeue{Reinsert: true, MinSlot: 5, MaxSlot: 7})

		pos := -1
		for i, id := range q.Remaining() {
			if id == card {
				pos = i
				break
			}
		}
		require.GreaterOrEqual(t, pos, 5)
		require.LessOrEqual(t, pos, 7)
	}
}

func TestQueueRemove(t *testing.T) {
	t.Parallel()

	cards := ids(4)
	q := NewQueue(cards)

	assert.True(t, q.Remove(cards[2]))
	assert.Equal(t, []uuid.UUID{cards[0], cards[1], cards[3]}, q.Remaining())

	assert.False(t, q.Remove(cards[2]), "already removed")
	assert.False(t, q.Remove(uuid.New()), "never queued")
	assert.Equal(t, 3, q.Len())
}
