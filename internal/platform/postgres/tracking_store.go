package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// trackingTables maps each item kind to its fixed table and column names.
// Only these identifiers are ever interpolated into tracking queries.
type trackingTables struct {
	tracking string
	itemCol  string
	items    string
}

var trackingTablesByKind = map[domain.ItemKind]trackingTables{
	domain.KindWord:        {tracking: "word_tracking", itemCol: "word_id", items: "words"},
	domain.KindConjugation: {tracking: "conjugation_tracking", itemCol: "conjugation_id", items: "conjugations"},
}

func tablesFor(kind domain.ItemKind) (trackingTables, error) {
	t, ok := trackingTablesByKind[kind]
	if !ok {
		return trackingTables{}, domain.NewValidationError("kind", fmt.Sprintf("unknown item kind %q", kind), nil)
	}
	return t, nil
}

// PostgresTrackingStore implements the store.TrackingStore interface
// for both word and conjugation tracking tables.
type PostgresTrackingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTrackingStore creates a new PostgreSQL implementation of the TrackingStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTrackingStore(db store.DBTX, logger *slog.Logger) *PostgresTrackingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTrackingStore{
		db:     db,
		logger: logger.With(slog.String("component", "tracking_store")),
	}
}

// Ensure PostgresTrackingStore implements store.TrackingStore interface
var _ store.TrackingStore = (*PostgresTrackingStore)(nil)

// WithTx implements store.TrackingStore.WithTx
func (s *PostgresTrackingStore) WithTx(tx *sql.Tx) store.TrackingStore {
	return &PostgresTrackingStore{db: tx, logger: s.logger}
}

// Create implements store.TrackingStore.Create
func (s *PostgresTrackingStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return err
	}
	t, err := tablesFor(record.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, total_attempts, mistake_timestamps, last_accessed, score)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.tracking, t.itemCol)

	var lastAccessed sql.NullTime
	if record.LastAccessed != nil {
		lastAccessed = sql.NullTime{Time: *record.LastAccessed, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, query,
		record.ItemID,
		record.UserID,
		record.TotalAttempts,
		nonNil(record.MistakeTimestamps),
		lastAccessed,
		record.Score,
	)
	if err != nil {
		log.Error("failed to create tracking record",
			slog.String("error", err.Error()),
			slog.String("kind", record.Kind.String()),
			slog.String("item_id", record.ItemID.String()))
		return MapError(err)
	}

	return nil
}

// Get implements store.TrackingStore.Get
func (s *PostgresTrackingStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
) (*domain.TrackingRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s, user_id, total_attempts, mistake_timestamps, last_accessed, score
		FROM %s
		WHERE user_id = $1 AND %s = $2
	`, t.itemCol, t.tracking, t.itemCol)

	record, err := scanTracking(s.db.QueryRowContext(ctx, query, userID, itemID), newTypeMap(), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrackingNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get tracking record",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, MapError(err)
	}
	return record, nil
}

// Delete implements store.TrackingStore.Delete
func (s *PostgresTrackingStore) Delete(ctx context.Context, userID uuid.UUID, kind domain.ItemKind, itemID uuid.UUID) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, t.tracking, t.itemCol)
	result, err := s.db.ExecContext(ctx, query, userID, itemID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTrackingNotFound)
}

// CheckIntegrity implements store.TrackingStore.CheckIntegrity
func (s *PostgresTrackingStore) CheckIntegrity(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
) (store.IntegrityReport, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return store.IntegrityReport{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %[1]s t
				WHERE t.user_id = $1
				AND NOT EXISTS (SELECT 1 FROM %[3]s i WHERE i.id = t.%[2]s AND i.user_id = t.user_id)),
			(SELECT COUNT(*) FROM %[3]s i
				WHERE i.user_id = $1
				AND NOT EXISTS (SELECT 1 FROM %[1]s t WHERE t.%[2]s = i.id AND t.user_id = i.user_id))
	`, t.tracking, t.itemCol, t.items)

	var report store.IntegrityReport
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&report.OrphanedTracking, &report.UntrackedItems); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check tracking integrity",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return store.IntegrityReport{}, MapError(err)
	}
	return report, nil
}

// ListBelowFloor implements store.TrackingStore.ListBelowFloor
// The rows stay locked until the surrounding transaction ends.
func (s *PostgresTrackingStore) ListBelowFloor(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	floor float64,
) ([]*domain.TrackingRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %[1]s, user_id, total_attempts, mistake_timestamps, last_accessed, score
		FROM %[2]s
		WHERE user_id = $1 AND (score IS NULL OR score < $2)
		ORDER BY %[1]s
		FOR UPDATE
	`, t.itemCol, t.tracking)

	rows, err := s.db.QueryContext(ctx, query, userID, floor)
	if err != nil {
		log.Error("failed to list tracking records below floor",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	m := newTypeMap()
	records := make([]*domain.TrackingRecord, 0)
	for rows.Next() {
		record, err := scanTracking(rows, m, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracking record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

// RecordAttempt implements store.TrackingStore.RecordAttempt
// The increment, timestamp and mistake append happen in one UPDATE, so
// concurrent attempts on the same record serialise on its row lock.
func (s *PostgresTrackingStore) RecordAttempt(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
	correct bool,
	at time.Time,
) (*domain.TrackingRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET total_attempts = total_attempts + 1,
			last_accessed = $4::timestamptz,
			mistake_timestamps = CASE
				WHEN $3::boolean THEN mistake_timestamps
				ELSE array_append(COALESCE(mistake_timestamps, '{}'), $4::timestamptz)
			END
		WHERE user_id = $1 AND %[2]s = $2
		RETURNING %[2]s, user_id, total_attempts, mistake_timestamps, last_accessed, score
	`, t.tracking, t.itemCol)

	record, err := scanTracking(s.db.QueryRowContext(ctx, query, userID, itemID, correct, at), newTypeMap(), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrackingNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record attempt",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()),
			slog.String("item_id", itemID.String()))
		return nil, MapError(err)
	}
	return record, nil
}

// UpdateScore implements store.TrackingStore.UpdateScore
func (s *PostgresTrackingStore) UpdateScore(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
	score float64,
) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET score = $3 WHERE user_id = $1 AND %s = $2`, t.tracking, t.itemCol)
	result, err := s.db.ExecContext(ctx, query, userID, itemID, score)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update score",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTrackingNotFound)
}

func scanTracking(row rowScanner, m *pgtype.Map, kind domain.ItemKind) (*domain.TrackingRecord, error) {
	var (
		r            domain.TrackingRecord
		lastAccessed sql.NullTime
		score        sql.NullFloat64
	)
	if err := row.Scan(
		&r.ItemID,
		&r.UserID,
		&r.TotalAttempts,
		m.SQLScanner(&r.MistakeTimestamps),
		&lastAccessed,
		&score,
	); err != nil {
		return nil, err
	}

	r.Kind = kind
	if lastAccessed.Valid {
		at := lastAccessed.Time
		r.LastAccessed = &at
	}
	if score.Valid {
		r.Score = score.Float64
	}
	return &r, nil
}
