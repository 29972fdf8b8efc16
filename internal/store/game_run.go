package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
)

// GameRunStore persists the append-only log of completed games.
type GameRunStore interface {
	// Create appends a run to the log for run.Kind.
	Create(ctx context.Context, run *domain.GameRun) error

	// List returns the owner's runs of the given kind created at or after
	// since, oldest first. A zero since returns every run.
	List(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, since time.Time) ([]*domain.GameRun, error)

	// WithTx returns a GameRunStore bound to the given transaction.
	WithTx(tx *sql.Tx) GameRunStore
}
