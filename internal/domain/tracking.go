package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind identifies which content domain an item or tracking record belongs to.
type ItemKind string

const (
	// KindWord is a vocabulary entry.
	KindWord ItemKind = "word"

	// KindConjugation is a verb conjugation entry.
	KindConjugation ItemKind = "conjugation"
)

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	return k == KindWord || k == KindConjugation
}

// String returns the kind name.
func (k ItemKind) String() string {
	return string(k)
}

// TrackingRecord is the mutable per-item state that drives selection.
// Every content item has exactly one tracking record.
type TrackingRecord struct {
	ItemID            uuid.UUID
	UserID            uuid.UUID
	Kind              ItemKind
	TotalAttempts     int
	MistakeTimestamps []time.Time
	LastAccessed      *time.Time // nil until the first attempt
	Score             float64    // a NULL score is read as 0
}

// MistakeCount returns the number of recorded mistakes.
func (r *TrackingRecord) MistakeCount() int {
	return len(r.MistakeTimestamps)
}

// Accuracy returns the share of attempts answered correctly, or 0 when
// the item has never been attempted.
func (r *TrackingRecord) Accuracy() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	correct := r.TotalAttempts - r.MistakeCount()
	return float64(correct) / float64(r.TotalAttempts)
}

// Validate checks the structural invariants of the record.
func (r *TrackingRecord) Validate() error {
	if r.ItemID == uuid.Nil {
		return NewValidationError("item_id", "cannot be empty", ErrInvalidID)
	}
	if r.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if !r.Kind.Valid() {
		return NewValidationError("kind", "is not a known item kind", nil)
	}
	if r.TotalAttempts < 0 {
		return NewValidationError("total_attempts", "cannot be negative", nil)
	}
	if r.MistakeCount() > r.TotalAttempts {
		return NewValidationError("mistake_timestamps", "cannot exceed total attempts", nil)
	}
	return nil
}

// PoolEntry is a candidate for a game session paired with its current score.
type PoolEntry[T any] struct {
	Item  T
	Score float64
}
