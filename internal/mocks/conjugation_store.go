package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
)

// MockConjugationStore implements store.ConjugationStore for testing
type MockConjugationStore struct {
	CreateFn    func(ctx context.Context, c *domain.Conjugation) error
	GetByIDFn   func(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error)
	FindByKeyFn func(ctx context.Context, userID uuid.UUID, verb, person, tense string) (*domain.Conjugation, error)
	ListFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error)
	UpdateFn    func(ctx context.Context, c *domain.Conjugation) error
	DeleteFn    func(ctx context.Context, userID, id uuid.UUID) error
	PoolFn      func(
		ctx context.Context,
		userID uuid.UUID,
		filter domain.ConjugationFilter,
	) ([]domain.PoolEntry[*domain.Conjugation], error)

	// Err is returned by methods without an Fn
	Err error

	Created []*domain.Conjugation
}

var _ store.ConjugationStore = (*MockConjugationStore)(nil)

// Create implements store.ConjugationStore
func (m *MockConjugationStore) Create(ctx context.Context, c *domain.Conjugation) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, c); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, c)
	return nil
}

// GetByID implements store.ConjugationStore
func (m *MockConjugationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrConjugationNotFound
}

// FindByKey implements store.ConjugationStore
func (m *MockConjugationStore) FindByKey(
	ctx context.Context,
	userID uuid.UUID,
	verb, person, tense string,
) (*domain.Conjugation, error) {
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, userID, verb, person, tense)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrConjugationNotFound
}

// List implements store.ConjugationStore
func (m *MockConjugationStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return []*domain.Conjugation{}, m.Err
}

// Update implements store.ConjugationStore
func (m *MockConjugationStore) Update(ctx context.Context, c *domain.Conjugation) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, c)
	}
	return m.Err
}

// Delete implements store.ConjugationStore
func (m *MockConjugationStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

// Pool implements store.ConjugationStore
func (m *MockConjugationStore) Pool(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.ConjugationFilter,
) ([]domain.PoolEntry[*domain.Conjugation], error) {
	if m.PoolFn != nil {
		return m.PoolFn(ctx, userID, filter)
	}
	return []domain.PoolEntry[*domain.Conjugation]{}, m.Err
}

// WithTx implements store.ConjugationStore
func (m *MockConjugationStore) WithTx(*sql.Tx) store.ConjugationStore {
	return m
}
