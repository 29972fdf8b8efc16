package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// DriverName is the database/sql driver registered by pgx's stdlib package.
const DriverName = "pgx"

// PostgresStatsStore implements the store.StatsStore interface.
// It only reads, and scans aggregate rows into structs with sqlx.
type PostgresStatsStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStatsStore wraps db for struct scanning.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db *sql.DB, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     sqlx.NewDb(db, DriverName),
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// CountItems implements store.StatsStore.CountItems
func (s *PostgresStatsStore) CountItems(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1 AND created_at >= $2`, t.items)
	if err := s.db.GetContext(ctx, &count, query, userID, since); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count items",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return 0, MapError(err)
	}
	return count, nil
}

// DailyAdditions implements store.StatsStore.DailyAdditions
func (s *PostgresStatsStore) DailyAdditions(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]store.DailyAdditions, error) {
	query := `
		SELECT day, SUM(words)::int AS words, SUM(conjugations)::int AS conjugations
		FROM (
			SELECT date_trunc('day', created_at) AS day, COUNT(*) AS words, 0 AS conjugations
			FROM words
			WHERE user_id = $1 AND created_at >= $2
			GROUP BY 1
			UNION ALL
			SELECT date_trunc('day', created_at) AS day, 0 AS words, COUNT(*) AS conjugations
			FROM conjugations
			WHERE user_id = $1 AND created_at >= $2
			GROUP BY 1
		) d
		GROUP BY day
		ORDER BY day`

	days := make([]store.DailyAdditions, 0)
	if err := s.db.SelectContext(ctx, &days, query, userID, since); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load daily additions",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return days, nil
}

// AttemptedItems implements store.StatsStore.AttemptedItems
func (s *PostgresStatsStore) AttemptedItems(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) ([]store.ItemPerformance, error) {
	var query string
	switch kind {
	case domain.KindWord:
		query = `
			SELECT w.id AS item_id,
				w.word AS label,
				array_to_string(w.translations, ', ') AS detail,
				t.total_attempts,
				COALESCE(cardinality(t.mistake_timestamps), 0) AS mistakes
			FROM word_tracking t
			JOIN words w ON w.id = t.word_id AND w.user_id = t.user_id
			WHERE t.user_id = $1 AND t.total_attempts > 0 AND t.last_accessed >= $2`
	case domain.KindConjugation:
		query = `
			SELECT c.id AS item_id,
				c.verb || ' (' || c.person || ', ' || c.tense || ')' AS label,
				c.conjugation AS detail,
				t.total_attempts,
				COALESCE(cardinality(t.mistake_timestamps), 0) AS mistakes
			FROM conjugation_tracking t
			JOIN conjugations c ON c.id = t.conjugation_id AND c.user_id = t.user_id
			WHERE t.user_id = $1 AND t.total_attempts > 0 AND t.last_accessed >= $2`
	default:
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown item kind %q", kind), nil)
	}

	items := make([]store.ItemPerformance, 0)
	if err := s.db.SelectContext(ctx, &items, query, userID, since); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load attempted items",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return nil, MapError(err)
	}
	return items, nil
}
