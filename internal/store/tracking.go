package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
)

// IntegrityReport counts mismatches between an owner's items and tracking records.
type IntegrityReport struct {
	OrphanedTracking int // tracking records whose item is gone
	UntrackedItems   int // items with no tracking record
}

// Consistent reports whether no mismatch was found.
func (r IntegrityReport) Consistent() bool {
	return r.OrphanedTracking == 0 && r.UntrackedItems == 0
}

// TrackingStore persists the per-item tracking records of both item kinds.
// Every method is scoped to the owner passed as userID.
type TrackingStore interface {
	// Create inserts the tracking record for a newly created item.
	Create(ctx context.Context, record *domain.TrackingRecord) error

	// Get returns the owner's tracking record for the item, or ErrTrackingNotFound.
	Get(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) (*domain.TrackingRecord, error)

	// Delete removes the tracking record, or returns ErrTrackingNotFound.
	Delete(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) error

	// CheckIntegrity compares the owner's items with their tracking records.
	CheckIntegrity(ctx context.Context, userID uuid.UUID, kind domain.ItemKind) (IntegrityReport, error)

	// ListBelowFloor returns, and locks for update, the owner's records
	// whose score is NULL or below floor.
	ListBelowFloor(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.ItemKind,
		floor float64,
	) ([]*domain.TrackingRecord, error)

	// RecordAttempt atomically increments total_attempts, sets
	// last_accessed to at and, when correct is false, appends at to the
	// mistake timestamps. It returns the updated record.
	// Returns ErrTrackingNotFound when no record matches owner and item.
	RecordAttempt(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.ItemKind,
		itemID uuid.UUID,
		correct bool,
		at time.Time,
	) (*domain.TrackingRecord, error)

	// UpdateScore stores a recomputed score, or returns ErrTrackingNotFound.
	UpdateScore(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID, score float64) error

	// WithTx returns a TrackingStore bound to the given transaction.
	WithTx(tx *sql.Tx) TrackingStore
}
