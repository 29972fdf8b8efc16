package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
)

// ConjugationStore defines the interface for conjugation persistence.
// Every method is scoped to the owner passed as userID.
type ConjugationStore interface {
	// Create inserts a conjugation. Returns ErrConjugationExists when the
	// owner already has the same verb, person and tense.
	Create(ctx context.Context, c *domain.Conjugation) error

	// GetByID returns the owner's conjugation or ErrConjugationNotFound.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error)

	// FindByKey returns the owner's conjugation for verb, person and tense,
	// or ErrConjugationNotFound.
	FindByKey(ctx context.Context, userID uuid.UUID, verb, person, tense string) (*domain.Conjugation, error)

	// List returns all of the owner's conjugations, oldest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error)

	// Update saves the editable fields or returns ErrConjugationNotFound.
	Update(ctx context.Context, c *domain.Conjugation) error

	// Delete removes the conjugation or returns ErrConjugationNotFound.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Pool returns every conjugation matching filter together with its
	// current tracking score.
	Pool(
		ctx context.Context,
		userID uuid.UUID,
		filter domain.ConjugationFilter,
	) ([]domain.PoolEntry[*domain.Conjugation], error)

	// WithTx returns a ConjugationStore bound to the given transaction.
	WithTx(tx *sql.Tx) ConjugationStore
}
