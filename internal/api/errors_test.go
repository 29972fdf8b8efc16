package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/service/auth"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, expectedStatus: http.StatusUnauthorized},
		{
			name:           "wrapped revoked token",
			err:            fmt.Errorf("authenticate: %w", auth.ErrRevokedToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{name: "bad credentials", err: service.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "word not found", err: store.ErrWordNotFound, expectedStatus: http.StatusNotFound},
		{
			name:           "service-wrapped not found",
			err:            service.NewServiceError("get_word", "failed", store.ErrConjugationNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{name: "username taken", err: store.ErrUsernameExists, expectedStatus: http.StatusConflict},
		{name: "conjugation exists", err: store.ErrConjugationExists, expectedStatus: http.StatusConflict},
		{
			name:           "validation error",
			err:            domain.NewValidationError("limit", "cannot be negative", nil),
			expectedStatus: http.StatusBadRequest,
		},
		{name: "invalid entity", err: store.ErrInvalidEntity, expectedStatus: http.StatusBadRequest},
		{name: "empty body", err: shared.ErrEmptyBody, expectedStatus: http.StatusBadRequest},
		{
			name:           "data integrity",
			err:            &domain.DataIntegrityError{Kind: domain.KindWord, OrphanedTracking: 1},
			expectedStatus: http.StatusInternalServerError,
		},
		{name: "unknown", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
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
		{name: "nil", err: nil, want: "An unexpected error occurred"},
		{name: "expired", err: auth.ErrExpiredToken, want: "Token expired"},
		{name: "refresh", err: auth.ErrExpiredRefreshToken, want: "Invalid refresh token"},
		{name: "credentials", err: service.ErrInvalidCredentials, want: "Invalid credentials"},
		{name: "word", err: store.ErrWordNotFound, want: "Word not found"},
		{name: "conjugation", err: store.ErrConjugationNotFound, want: "Conjugation not found"},
		{name: "tracking", err: store.ErrTrackingNotFound, want: "Resource not found"},
		{name: "username", err: store.ErrUsernameExists, want: "Username already exists"},
		{
			name: "field validation",
			err:  domain.NewValidationError("time_limit", "cannot be negative", nil),
			want: "Invalid time_limit: cannot be negative",
		},
		{
			name: "fieldless validation",
			err:  domain.NewValidationError("", "password must be at least 8 characters long", nil),
			want: "Invalid request: password must be at least 8 characters long",
		},
		{name: "integrity", err: &domain.DataIntegrityError{Kind: domain.KindConjugation}, want: "Data integrity error"},
		{
			name: "internal detail",
			err:  errors.New("pq: relation \"words\" does not exist"),
			want: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := validate.Struct(RegisterRequest{Username: "al", Password: "password123"})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	assert.Equal(t, "Invalid username: too short", SanitizeValidationError(err))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("override applies to server errors", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("db gone"), "Failed to list words")

		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to list words", body.Error)
	})

	t.Run("override does not mask client errors", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), store.ErrWordNotFound, "Failed to get word")

		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Word not found", body.Error)
	})

	t.Run("integrity keeps its own message", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		err := &domain.DataIntegrityError{Kind: domain.KindWord, UntrackedItems: 2}
		HandleAPIError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err, "Failed to start game")

		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Data integrity error", body.Error)
	})
}
