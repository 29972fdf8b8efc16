package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
)

// MockWordStore implements store.WordStore for testing
type MockWordStore struct {
	CreateFn     func(ctx context.Context, word *domain.Word) error
	GetByIDFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Word, error)
	FindByTextFn func(ctx context.Context, userID uuid.UUID, text string) (*domain.Word, error)
	ListFn       func(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)
	UpdateFn     func(ctx context.Context, word *domain.Word) error
	DeleteFn     func(ctx context.Context, userID, id uuid.UUID) error
	PoolFn       func(
		ctx context.Context,
		userID uuid.UUID,
		filter domain.WordFilter,
	) ([]domain.PoolEntry[*domain.Word], error)

	// Err is returned by methods without an Fn
	Err error

	Created []*domain.Word
	Updated []*domain.Word
}

var _ store.WordStore = (*MockWordStore)(nil)

// Create implements store.WordStore
func (m *MockWordStore) Create(ctx context.Context, word *domain.Word) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, word); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, word)
	return nil
}

// GetByID implements store.WordStore
func (m *MockWordStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Word, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrWordNotFound
}

// FindByText implements store.WordStore
func (m *MockWordStore) FindByText(ctx context.Context, userID uuid.UUID, text string) (*domain.Word, error) {
	if m.FindByTextFn != nil {
		return m.FindByTextFn(ctx, userID, text)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrWordNotFound
}

// List implements store.WordStore
func (m *MockWordStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return []*domain.Word{}, m.Err
}

// Update implements store.WordStore
func (m *MockWordStore) Update(ctx context.Context, word *domain.Word) error {
	if m.UpdateFn != nil {
		if err := m.UpdateFn(ctx, word); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.Updated = append(m.Updated, word)
	return nil
}

// Delete implements store.WordStore
func (m *MockWordStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

// Pool implements store.WordStore
func (m *MockWordStore) Pool(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.WordFilter,
) ([]domain.PoolEntry[*domain.Word], error) {
	if m.PoolFn != nil {
		return m.PoolFn(ctx, userID, filter)
	}
	return []domain.PoolEntry[*domain.Word]{}, m.Err
}

// WithTx implements store.WordStore
func (m *MockWordStore) WithTx(*sql.Tx) store.WordStore {
	return m
}
