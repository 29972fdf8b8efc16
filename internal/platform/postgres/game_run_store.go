package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// PostgresGameRunStore implements the store.GameRunStore interface.
// Word and conjugation runs live in separate append-only tables.
type PostgresGameRunStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGameRunStore creates a new PostgreSQL implementation of the GameRunStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresGameRunStore(db store.DBTX, logger *slog.Logger) *PostgresGameRunStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGameRunStore{
		db:     db,
		logger: logger.With(slog.String("component", "game_run_store")),
	}
}

// Ensure PostgresGameRunStore implements store.GameRunStore interface
var _ store.GameRunStore = (*PostgresGameRunStore)(nil)

// WithTx implements store.GameRunStore.WithTx
func (s *PostgresGameRunStore) WithTx(tx *sql.Tx) store.GameRunStore {
	return &PostgresGameRunStore{db: tx, logger: s.logger}
}

// Create implements store.GameRunStore.Create
func (s *PostgresGameRunStore) Create(ctx context.Context, run *domain.GameRun) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var err error
	switch run.Kind {
	case domain.KindWord:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO word_game_runs (
				id, user_id, game_type, time_limit_seconds, zen_mode, ungraded,
				total_attempted, total_correct, parts_of_speech, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			run.ID,
			run.UserID,
			run.GameType,
			run.TimeLimitSeconds,
			run.ZenMode,
			run.Ungraded,
			run.TotalAttempted,
			run.TotalCorrect,
			nonNil(run.PartsOfSpeech),
			run.CreatedAt,
		)
	case domain.KindConjugation:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO conjugation_game_runs (
				id, user_id, mode, time_limit_seconds, zen_mode, ungraded,
				total_attempted, total_correct, correct_answers, tenses, verb_groups,
				pronominal_mode, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			run.ID,
			run.UserID,
			run.Mode,
			run.TimeLimitSeconds,
			run.ZenMode,
			run.Ungraded,
			run.TotalAttempted,
			run.TotalCorrect,
			run.CorrectAnswers,
			nonNil(run.Tenses),
			nonNil(run.Groups),
			run.PronominalMode,
			run.CreatedAt,
		)
	default:
		return domain.NewValidationError("kind", fmt.Sprintf("unknown item kind %q", run.Kind), nil)
	}

	if err != nil {
		log.Error("failed to create game run",
			slog.String("error", err.Error()),
			slog.String("kind", run.Kind.String()),
			slog.String("run_id", run.ID.String()))
		return MapError(err)
	}

	log.Info("game run recorded",
		slog.String("run_id", run.ID.String()),
		slog.String("kind", run.Kind.String()),
		slog.Int("total_attempted", run.TotalAttempted),
		slog.Int("total_correct", run.TotalCorrect))
	return nil
}

// List implements store.GameRunStore.List
func (s *PostgresGameRunStore) List(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	since time.Time,
) ([]*domain.GameRun, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query string
	switch kind {
	case domain.KindWord:
		query = `
			SELECT id, user_id, game_type, time_limit_seconds, zen_mode, ungraded,
				total_attempted, total_correct, parts_of_speech, created_at
			FROM word_game_runs
			WHERE user_id = $1 AND created_at >= $2
			ORDER BY created_at, id`
	case domain.KindConjugation:
		query = `
			SELECT id, user_id, mode, time_limit_seconds, zen_mode, ungraded,
				total_attempted, total_correct, correct_answers, tenses, verb_groups,
				pronominal_mode, created_at
			FROM conjugation_game_runs
			WHERE user_id = $1 AND created_at >= $2
			ORDER BY created_at, id`
	default:
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown item kind %q", kind), nil)
	}

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list game runs",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	m := newTypeMap()
	runs := make([]*domain.GameRun, 0)
	for rows.Next() {
		run, err := scanGameRun(rows, m, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return runs, nil
}

func scanGameRun(row rowScanner, m *pgtype.Map, kind domain.ItemKind) (*domain.GameRun, error) {
	run := domain.GameRun{Kind: kind}

	var err error
	if kind == domain.KindWord {
		err = row.Scan(
			&run.ID,
			&run.UserID,
			&run.GameType,
			&run.TimeLimitSeconds,
			&run.ZenMode,
			&run.Ungraded,
			&run.TotalAttempted,
			&run.TotalCorrect,
			m.SQLScanner(&run.PartsOfSpeech),
			&run.CreatedAt,
		)
	} else {
		err = row.Scan(
			&run.ID,
			&run.UserID,
			&run.Mode,
			&run.TimeLimitSeconds,
			&run.ZenMode,
			&run.Ungraded,
			&run.TotalAttempted,
			&run.TotalCorrect,
			&run.CorrectAnswers,
			m.SQLScanner(&run.Tenses),
			m.SQLScanner(&run.Groups),
			&run.PronominalMode,
			&run.CreatedAt,
		)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
