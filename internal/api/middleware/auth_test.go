package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelami/kouza-api/internal/service/auth"
)

// stubJWTService returns canned claims or errors for ValidateToken; the
// other methods are unused by the middleware.
type stubJWTService struct {
	claims *auth.Claims
	err    error
	token  string
}

func (s *stubJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func (s *stubJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, errors.New("not implemented")
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		header      string
		jwt         *stubJWTService
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing header",
			header:      "",
			jwt:         &stubJWTService{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authorization header required",
		},
		{
			name:        "wrong scheme",
			header:      "Basic dXNlcjpwYXNz",
			jwt:         &stubJWTService{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "missing token",
			header:      "Bearer",
			jwt:         &stubJWTService{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "expired token",
			header:      "Bearer some.expired.token",
			jwt:         &stubJWTService{err: auth.ErrExpiredToken},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token expired",
		},
		{
			name:        "invalid token",
			header:      "Bearer some.bad.token",
			jwt:         &stubJWTService{err: auth.ErrInvalidToken},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "refresh token rejected",
			header:      "Bearer some.refresh.token",
			jwt:         &stubJWTService{err: auth.ErrWrongTokenType},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "validation infrastructure failure",
			header:      "Bearer some.token",
			jwt:         &stubJWTService{err: errors.New("key store unreachable")},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Authentication error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(tc.jwt)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler should not be reached")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/flashcards/due", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body["error"])
		})
	}

	t.Run("valid token reaches the handler with the user ID", func(t *testing.T) {
		t.Parallel()

		jwt := &stubJWTService{claims: &auth.Claims{UserID: userID, TokenType: "access"}}
		mw := NewAuthMiddleware(jwt)

		var gotUserID uuid.UUID
		var found bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, found = GetUserID(r)
			w.WriteHeader(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/flashcards/due", nil)
		req.Header.Set("Authorization", "Bearer good.access.token")
		rec := httptest.NewRecorder()

		mw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, found)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, "good.access.token", jwt.token)
	})
}
