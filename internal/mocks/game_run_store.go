package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
)

// MockGameRunStore implements store.GameRunStore for testing
type MockGameRunStore struct {
	CreateFn func(ctx context.Context, run *domain.GameRun) error
	ListFn   func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, since time.Time) ([]*domain.GameRun, error)

	// Err is returned by methods without an Fn
	Err error

	Created []*domain.GameRun
}

var _ store.GameRunStore = (*MockGameRunStore)(nil)

// Create implements store.GameRunStore
func (m *MockGameRunStore) Create(ctx context.Context, run *domain.GameRun) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, run); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, run)
	return nil
}

// List implements store.GameRunStore
func (m *MockGameRunStore) List(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) ([]*domain.GameRun, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, kind, since)
	}
	return []*domain.GameRun{}, m.Err
}

// WithTx implements store.GameRunStore
func (m *MockGameRunStore) WithTx(*sql.Tx) store.GameRunStore {
	return m
}
