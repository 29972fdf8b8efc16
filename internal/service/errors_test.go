package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name: "with underlying error",
			err: &ServiceError{
				Operation: "add_word",
				Message:   "failed to save word",
				Err:       errors.New("connection reset"),
			},
			expected: "add_word operation failed: failed to save word: connection reset",
		},
		{
			name:     "without underlying error",
			err:      &ServiceError{Operation: "create_service", Message: "wordStore cannot be nil"},
			expected: "create_service operation failed: wordStore cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewServiceError(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, NewServiceError("op", "msg", nil))
	})

	t.Run("store sentinels stay reachable", func(t *testing.T) {
		err := NewServiceError("get_word", "failed to load word", store.ErrWordNotFound)
		assert.ErrorIs(t, err, store.ErrWordNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("domain errors stay reachable", func(t *testing.T) {
		err := NewServiceError(
			"start_word_game",
			"integrity check failed",
			&domain.DataIntegrityError{Kind: domain.KindWord, UntrackedItems: 1},
		)
		assert.ErrorIs(t, err, domain.ErrDataIntegrity)

		var serviceErr *ServiceError
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "start_word_game", serviceErr.Operation)
	})
}
