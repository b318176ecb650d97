// Package generation defines the interface for generating flashcards from
// lesson content. It serves as a boundary between the application core and
// external AI/LLM services; concrete implementations live under
// internal/platform.
package generation
