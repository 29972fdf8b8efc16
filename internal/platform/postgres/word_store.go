package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

const wordColumns = `w.id, w.user_id, w.word, w.translations, w.part_of_speech, w.article, w.created_at, w.updated_at`

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the WordStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// WithTx implements store.WordStore.WithTx
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{db: tx, logger: s.logger}
}

// Create implements store.WordStore.Create
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	query := `
		INSERT INTO words (id, user_id, word, translations, part_of_speech, article, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		word.ID,
		word.UserID,
		word.Word,
		word.Translations,
		word.PartOfSpeech,
		word.Article,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("word already exists",
				slog.String("user_id", word.UserID.String()),
				slog.String("word", word.Word))
			return store.ErrWordExists
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, word.UserID)
		}
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("user_id", word.UserID.String()))
	return nil
}

// GetByID implements store.WordStore.GetByID
func (s *PostgresWordStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words w WHERE w.user_id = $1 AND w.id = $2`
	return s.getOne(ctx, query, userID, id)
}

// FindByText implements store.WordStore.FindByText
func (s *PostgresWordStore) FindByText(ctx context.Context, userID uuid.UUID, text string) (*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words w WHERE w.user_id = $1 AND lower(w.word) = lower($2)`
	return s.getOne(ctx, query, userID, text)
}

func (s *PostgresWordStore) getOne(ctx context.Context, query string, args ...any) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := scanWord(s.db.QueryRowContext(ctx, query, args...), newTypeMap())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return word, nil
}

// List implements store.WordStore.List
func (s *PostgresWordStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words w WHERE w.user_id = $1 ORDER BY w.created_at, w.id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list words",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	m := newTypeMap()
	words := make([]*domain.Word, 0)
	for rows.Next() {
		word, err := scanWord(rows, m)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return words, nil
}

// Update implements store.WordStore.Update
func (s *PostgresWordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE words
		SET word = $3, translations = $4, part_of_speech = $5, article = $6, updated_at = $7
		WHERE user_id = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		word.UserID,
		word.ID,
		word.Word,
		word.Translations,
		word.PartOfSpeech,
		word.Article,
		word.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrWordExists
		}
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// Delete implements store.WordStore.Delete
func (s *PostgresWordStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// Pool implements store.WordStore.Pool
// Only words with a tracking record are returned; a NULL score reads as 0.
func (s *PostgresWordStore) Pool(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.WordFilter,
) ([]domain.PoolEntry[*domain.Word], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter = filter.Normalize()
	p := newPredicate(userID)
	if len(filter.PartsOfSpeech) > 0 {
		p.arg("w.part_of_speech = ANY(%s)", filter.PartsOfSpeech)
	}

	query := `
		SELECT ` + wordColumns + `, COALESCE(t.score, 0)
		FROM words w
		JOIN word_tracking t ON t.word_id = w.id AND t.user_id = w.user_id
		WHERE w.user_id = $1` + p.where() + `
		ORDER BY w.id`

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		log.Error("failed to load word pool",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	m := newTypeMap()
	pool := make([]domain.PoolEntry[*domain.Word], 0)
	for rows.Next() {
		var (
			w     domain.Word
			score float64
		)
		if err := rows.Scan(
			&w.ID,
			&w.UserID,
			&w.Word,
			m.SQLScanner(&w.Translations),
			&w.PartOfSpeech,
			&w.Article,
			&w.CreatedAt,
			&w.UpdatedAt,
			&score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word pool entry: %w", err)
		}
		pool = append(pool, domain.PoolEntry[*domain.Word]{Item: &w, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("word pool loaded",
		slog.String("user_id", userID.String()),
		slog.Int("size", len(pool)))
	return pool, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner, m *pgtype.Map) (*domain.Word, error) {
	var w domain.Word
	if err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Word,
		m.SQLScanner(&w.Translations),
		&w.PartOfSpeech,
		&w.Article,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}
