// Package service provides application-level services for managing
// flashcards, study sessions, progress records, and learning goals.
package service
