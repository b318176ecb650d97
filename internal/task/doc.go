// Package task implements background task processing for the API. Tasks are
// persisted before execution so unfinished work survives a restart, and a
// fixed worker pool drains an in-memory queue. Flashcard generation is the
// one task type today.
package task
