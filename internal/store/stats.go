package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
)

// DailyAdditions is the number of items an owner created on one day.
type DailyAdditions struct {
	Day          time.Time `db:"day"`
	Words        int       `db:"words"`
	Conjugations int       `db:"conjugations"`
}

// ItemPerformance summarises the tracking record of one attempted item.
type ItemPerformance struct {
	ItemID        uuid.UUID `db:"item_id"`
	Label         string    `db:"label"`
	Detail        string    `db:"detail"`
	TotalAttempts int       `db:"total_attempts"`
	Mistakes      int       `db:"mistakes"`
}

// Accuracy returns the share of correct attempts.
func (p ItemPerformance) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.TotalAttempts-p.Mistakes) / float64(p.TotalAttempts)
}

// StatsStore answers the read-only aggregate queries behind the stats view.
// It never writes.
type StatsStore interface {
	// CountItems counts the owner's items of kind created at or after since.
	CountItems(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, since time.Time) (int, error)

	// DailyAdditions returns per-day creation counts for both kinds since
	// the given instant, ordered by day.
	DailyAdditions(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyAdditions, error)

	// AttemptedItems returns the performance of every item of kind that
	// has at least one attempt and was last practised at or after since.
	AttemptedItems(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.ItemKind,
		since time.Time,
	) ([]ItemPerformance, error)
}
