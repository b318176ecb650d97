// Package events provides a lightweight in-process event system that
// decouples API handlers from the background task machinery. Handlers emit
// TaskRequestEvents; the task layer registers handlers that turn those events
// into persisted, queued tasks.
package events
