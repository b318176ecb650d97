package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/service"
	"github.com/xelami/kouza-api/internal/service/auth"
	"github.com/xelami/kouza-api/internal/service/review"
	"github.com/xelami/kouza-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},

		{"resource not owned", service.ErrNotOwned, http.StatusForbidden},
		{"card not owned", review.ErrCardNotOwned, http.StatusForbidden},
		{"session not owned", review.ErrSessionNotOwned, http.StatusForbidden},

		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"goal not found", store.ErrGoalNotFound, http.StatusNotFound},
		{"card not found", review.ErrCardNotFound, http.StatusNotFound},
		{"session not found", review.ErrSessionNotFound, http.StatusNotFound},

		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},

		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid outcome", review.ErrInvalidOutcome, http.StatusBadRequest},
		{"invalid quiz score", service.ErrInvalidScore, http.StatusBadRequest},
		{"domain validation", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"wrapped domain validation", fmt.Errorf("create user: %w", domain.ErrPasswordTooShort), http.StatusBadRequest},

		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped unknown", fmt.Errorf("outer: %w", errors.New("inner")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token hides detail", auth.ErrExpiredToken, "Invalid token"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"card not owned", review.ErrCardNotOwned, "You do not own this card"},
		{"flashcard not found", store.ErrFlashcardNotFound, "Flashcard not found"},
		{"wrapped session not found", fmt.Errorf("end session: %w", review.ErrSessionNotFound), "Study session not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"invalid outcome", review.ErrInvalidOutcome, "Invalid review outcome"},
		{"quiz score range", service.ErrInvalidScore, "Quiz score must be between 0 and 100"},
		{"internal detail suppressed", errors.New("pq: connection reset"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}

	t.Run("validation errors keep their message", func(t *testing.T) {
		t.Parallel()
		msg := GetSafeErrorMessage(domain.ErrCardQuestionEmpty)
		assert.Contains(t, msg, "Invalid request data: ")
	})
}
