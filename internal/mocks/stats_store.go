package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
)

// MockStatsStore implements store.StatsStore for testing
type MockStatsStore struct {
	CountItemsFn     func(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, since time.Time) (int, error)
	DailyAdditionsFn func(ctx context.Context, userID uuid.UUID, since time.Time) ([]store.DailyAdditions, error)
	AttemptedItemsFn func(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.ItemKind,
		since time.Time,
	) ([]store.ItemPerformance, error)

	// Err is returned by methods without an Fn
	Err error
}

var _ store.StatsStore = (*MockStatsStore)(nil)

// CountItems implements store.StatsStore
func (m *MockStatsStore) CountItems(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) (int, error) {
	if m.CountItemsFn != nil {
		return m.CountItemsFn(ctx, userID, kind, since)
	}
	return 0, m.Err
}

// DailyAdditions implements store.StatsStore
func (m *MockStatsStore) DailyAdditions(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]store.DailyAdditions, error) {
	if m.DailyAdditionsFn != nil {
		return m.DailyAdditionsFn(ctx, userID, since)
	}
	return []store.DailyAdditions{}, m.Err
}

// AttemptedItems implements store.StatsStore
func (m *MockStatsStore) AttemptedItems(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) ([]store.ItemPerformance, error) {
	if m.AttemptedItemsFn != nil {
		return m.AttemptedItemsFn(ctx, userID, kind, since)
	}
	return []store.ItemPerformance{}, m.Err
}
