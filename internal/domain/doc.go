// Package domain defines the core business entities of the Kouza learning
// platform: users, flashcards, study sessions, progress records, and
// learning goals, together with their validation rules.
package domain
