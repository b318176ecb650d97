package study

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/xelami/kouza-api/internal/domain/srs"
)

// ErrQueueEmpty is returned when Next is called on an exhausted queue.
var ErrQueueEmpty = errors.New("review queue is empty")

// Queue is the ordered list of cards remaining in the current study
// session. Cards graded again or hard are reinserted at a random position
// within the window the scheduler decides; cards graded good or easy never
// come back this session.
type Queue struct {
	cards []uuid.UUID

	// randIntN returns a random int in [0, n). Injected for deterministic
	// tests; defaults to math/rand/v2.
	randIntN func(n int) int
}

// QueueOption customizes queue construction.
type QueueOption func(*Queue)

// WithRandIntN overrides the queue's randomness source.
func WithRandIntN(fn func(n int) int) QueueOption {
	return func(q *Queue) {
		q.randIntN = fn
	}
}

// NewQueue creates a review queue over the given cards in order.
func NewQueue(cardIDs []uuid.UUID, opts ...QueueOption) *Queue {
	q := &Queue{
		cards:    append([]uuid.UUID(nil), cardIDs...),
		randIntN: rand.IntN,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Len returns the number of cards remaining.
func (q *Queue) Len() int {
	return len(q.cards)
}

// Empty reports whether the session is complete: no cards left to show.
func (q *Queue) Empty() bool {
	return len(q.cards) == 0
}

// Next pops the card at the front of the queue. The caller shows the card,
// collects an outcome, and either drops it or calls Reinsert with the
// scheduler's requeue decision.
func (q *Queue) Next() (uuid.UUID, error) {
	if q.Empty() {
		return uuid.Nil, ErrQueueEmpty
	}
	card := q.cards[0]
	q.cards = q.cards[1:]
	return card, nil
}

// Reinsert puts a card back into the queue at a random slot within the
// requeue window. Slots are positions in the remaining queue; the window is
// clamped to the queue length, so a short queue degrades to appending at
// the end. Calling Reinsert with a non-reinsert decision is a no-op.
func (q *Queue) Reinsert(cardID uuid.UUID, requeue srs.Requeue) {
	if !requeue.Reinsert {
		return
	}

	min, max := requeue.MinSlot, requeue.MaxSlot
	if min < 0 {
		min = 0
	}
	if max > len(q.cards) {
		max = len(q.cards)
	}
	if min > max {
		min = max
	}

	slot := min
	if max > min {
		slot += q.randIntN(max - min + 1)
	}

	q.cards = append(q.cards, uuid.Nil)
	copy(q.cards[slot+1:], q.cards[slot:])
	q.cards[slot] = cardID
}

// Remove drops every pending occurrence of the card, for example when the
// card is deleted mid-session. Reports whether anything was removed.
func (q *Queue) Remove(cardID uuid.UUID) bool {
	kept := q.cards[:0]
	removed := false
	for _, id := range q.cards {
		if id == cardID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	q.cards = kept
	return removed
}

// Remaining returns a copy of the queue contents in order.
func (q *Queue) Remaining() []uuid.UUID {
	return append([]uuid.UUID(nil), q.cards...)
}
