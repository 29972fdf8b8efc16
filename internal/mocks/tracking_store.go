package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
)

// ScoreUpdate is one recorded call to UpdateScore.
type ScoreUpdate struct {
	UserID uuid.UUID
	Kind   domain.ItemKind
	ItemID uuid.UUID
	Score  float64
}

// MockTrackingStore implements store.TrackingStore for testing
type MockTrackingStore struct {
	CreateFn         func(ctx context.Context, record *domain.TrackingRecord) error
	GetFn            func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) (*domain.TrackingRecord, error)
	DeleteFn         func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) error
	CheckIntegrityFn func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind) (store.IntegrityReport, error)
	ListBelowFloorFn func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, floor float64) ([]*domain.TrackingRecord, error)
	RecordAttemptFn  func(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.ItemKind,
		itemID uuid.UUID,
		correct bool,
		at time.Time,
	) (*domain.TrackingRecord, error)
	UpdateScoreFn    func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID, score float64) error

	// Err is returned by methods without an Fn
	Err error

	mu           sync.Mutex
	Created      []*domain.TrackingRecord
	ScoreUpdates []ScoreUpdate
}

var _ store.TrackingStore = (*MockTrackingStore)(nil)

// Create implements store.TrackingStore
func (m *MockTrackingStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, record); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.Created = append(m.Created, record)
	m.mu.Unlock()
	return nil
}

// Get implements store.TrackingStore
func (m *MockTrackingStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
) (*domain.TrackingRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, kind, itemID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrTrackingNotFound
}

// Delete implements store.TrackingStore
func (m *MockTrackingStore) Delete(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, kind, itemID)
	}
	return m.Err
}

// CheckIntegrity implements store.TrackingStore
func (m *MockTrackingStore) CheckIntegrity(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
) (store.IntegrityReport, error) {
	if m.CheckIntegrityFn != nil {
		return m.CheckIntegrityFn(ctx, userID, kind)
	}
	return store.IntegrityReport{}, m.Err
}

// ListBelowFloor implements store.TrackingStore
func (m *MockTrackingStore) ListBelowFloor(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	floor float64,
) ([]*domain.TrackingRecord, error) {
	if m.ListBelowFloorFn != nil {
		return m.ListBelowFloorFn(ctx, userID, kind, floor)
	}
	return []*domain.TrackingRecord{}, m.Err
}

// RecordAttempt implements store.TrackingStore
func (m *MockTrackingStore) RecordAttempt(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
	correct bool,
	at time.Time,
) (*domain.TrackingRecord, error) {
	if m.RecordAttemptFn != nil {
		return m.RecordAttemptFn(ctx, userID, kind, itemID, correct, at)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrTrackingNotFound
}

// UpdateScore implements store.TrackingStore
func (m *MockTrackingStore) UpdateScore(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
	score float64,
) error {
	if m.UpdateScoreFn != nil {
		if err := m.UpdateScoreFn(ctx, userID, kind, itemID, score); err != nil {
			return err
		}
	} else if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.ScoreUpdates = append(m.ScoreUpdates, ScoreUpdate{UserID: userID, Kind: kind, ItemID: itemID, Score: score})
	m.mu.Unlock()
	return nil
}

// WithTx implements store.TrackingStore
func (m *MockTrackingStore) WithTx(*sql.Tx) store.TrackingStore {
	return m
}
