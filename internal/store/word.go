package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
)

// WordStore defines the interface for vocabulary persistence.
// Every method is scoped to the owner passed as userID.
type WordStore interface {
	// Create inserts a word. Returns ErrWordExists when the owner already
	// has the same word (case-insensitive).
	Create(ctx context.Context, word *domain.Word) error

	// GetByID returns the owner's word. Returns ErrWordNotFound otherwise.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Word, error)

	// FindByText returns the owner's word matching text case-insensitively.
	// Returns ErrWordNotFound when there is none.
	FindByText(ctx context.Context, userID uuid.UUID, text string) (*domain.Word, error)

	// List returns all of the owner's words, oldest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)

	// Update saves the editable fields. Returns ErrWordNotFound if the
	// word does not exist for word.UserID.
	Update(ctx context.Context, word *domain.Word) error

	// Delete removes the word. Returns ErrWordNotFound if it does not exist.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Pool returns every word matching filter together with its current
	// tracking score.
	Pool(ctx context.Context, userID uuid.UUID, filter domain.WordFilter) ([]domain.PoolEntry[*domain.Word], error)

	// WithTx returns a WordStore bound to the given transaction.
	WithTx(tx *sql.Tx) WordStore
}
