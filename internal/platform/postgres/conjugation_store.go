package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

const conjugationColumns = `c.id, c.user_id, c.verb, c.person, c.tense, c.conjugation,
	c.irregular, c.pronominal, c.verb_group, c.created_at, c.updated_at`

// PostgresConjugationStore implements the store.ConjugationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresConjugationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConjugationStore creates a new PostgreSQL implementation of the ConjugationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresConjugationStore(db store.DBTX, logger *slog.Logger) *PostgresConjugationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresConjugationStore{
		db:     db,
		logger: logger.With(slog.String("component", "conjugation_store")),
	}
}

// Ensure PostgresConjugationStore implements store.ConjugationStore interface
var _ store.ConjugationStore = (*PostgresConjugationStore)(nil)

// WithTx implements store.ConjugationStore.WithTx
func (s *PostgresConjugationStore) WithTx(tx *sql.Tx) store.ConjugationStore {
	return &PostgresConjugationStore{db: tx, logger: s.logger}
}

// Create implements store.ConjugationStore.Create
func (s *PostgresConjugationStore) Create(ctx context.Context, c *domain.Conjugation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		log.Warn("conjugation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", c.ID.String()))
		return err
	}

	query := `
		INSERT INTO conjugations (
			id, user_id, verb, person, tense, conjugation,
			irregular, pronominal, verb_group, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Verb,
		c.Person,
		c.Tense,
		c.Conjugation,
		c.Irregular,
		c.Pronominal,
		c.VerbGroup,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("conjugation already exists",
				slog.String("verb", c.Verb),
				slog.String("person", c.Person),
				slog.String("tense", c.Tense))
			return store.ErrConjugationExists
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, c.UserID)
		}
		log.Error("failed to create conjugation",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", c.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ConjugationStore.GetByID
func (s *PostgresConjugationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error) {
	query := `SELECT ` + conjugationColumns + ` FROM conjugations c WHERE c.user_id = $1 AND c.id = $2`
	return s.getOne(ctx, query, userID, id)
}

// FindByKey implements store.ConjugationStore.FindByKey
func (s *PostgresConjugationStore) FindByKey(
	ctx context.Context,
	userID uuid.UUID,
	verb, person, tense string,
) (*domain.Conjugation, error) {
	query := `SELECT ` + conjugationColumns + ` FROM conjugations c
		WHERE c.user_id = $1 AND c.verb = $2 AND c.person = $3 AND c.tense = $4`
	return s.getOne(ctx, query, userID, verb, person, tense)
}

func (s *PostgresConjugationStore) getOne(ctx context.Context, query string, args ...any) (*domain.Conjugation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	c, err := scanConjugation(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrConjugationNotFound
		}
		log.Error("failed to get conjugation", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return c, nil
}

// List implements store.ConjugationStore.List
func (s *PostgresConjugationStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + conjugationColumns + ` FROM conjugations c WHERE c.user_id = $1 ORDER BY c.created_at, c.id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list conjugations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.Conjugation, 0)
	for rows.Next() {
		c, err := scanConjugation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conjugation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return out, nil
}

// Update implements store.ConjugationStore.Update
func (s *PostgresConjugationStore) Update(ctx context.Context, c *domain.Conjugation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE conjugations
		SET verb = $3, person = $4, tense = $5, conjugation = $6,
			irregular = $7, pronominal = $8, verb_group = $9, updated_at = $10
		WHERE user_id = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		c.UserID,
		c.ID,
		c.Verb,
		c.Person,
		c.Tense,
		c.Conjugation,
		c.Irregular,
		c.Pronominal,
		c.VerbGroup,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrConjugationExists
		}
		log.Error("failed to update conjugation",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", c.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrConjugationNotFound)
}

// Delete implements store.ConjugationStore.Delete
func (s *PostgresConjugationStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM conjugations WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		log.Error("failed to delete conjugation",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrConjugationNotFound)
}

// Pool implements store.ConjugationStore.Pool
func (s *PostgresConjugationStore) Pool(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.ConjugationFilter,
) ([]domain.PoolEntry[*domain.Conjugation], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter = filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	p := newPredicate(userID)
	if len(filter.Tenses) > 0 {
		p.arg("c.tense = ANY(%s)", filter.Tenses)
	}
	if len(filter.Groups) > 0 {
		p.arg("c.verb_group = ANY(%s)", filter.Groups)
	}
	switch filter.Irregular {
	case domain.ModeOnly:
		p.raw("c.irregular")
	case domain.ModeExclude:
		p.raw("NOT c.irregular")
	}
	switch filter.Pronominal {
	case domain.ModeOnly:
		p.raw("c.pronominal")
	case domain.ModeExclude:
		p.raw("NOT c.pronominal")
	}

	query := `
		SELECT ` + conjugationColumns + `, COALESCE(t.score, 0)
		FROM conjugations c
		JOIN conjugation_tracking t ON t.conjugation_id = c.id AND t.user_id = c.user_id
		WHERE c.user_id = $1` + p.where() + `
		ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		log.Error("failed to load conjugation pool",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	pool := make([]domain.PoolEntry[*domain.Conjugation], 0)
	for rows.Next() {
		var (
			c     domain.Conjugation
			score float64
		)
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Verb,
			&c.Person,
			&c.Tense,
			&c.Conjugation,
			&c.Irregular,
			&c.Pronominal,
			&c.VerbGroup,
			&c.CreatedAt,
			&c.UpdatedAt,
			&score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conjugation pool entry: %w", err)
		}
		pool = append(pool, domain.PoolEntry[*domain.Conjugation]{Item: &c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("conjugation pool loaded",
		slog.String("user_id", userID.String()),
		slog.Int("size", len(pool)))
	return pool, nil
}

func scanConjugation(row rowScanner) (*domain.Conjugation, error) {
	var c domain.Conjugation
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Verb,
		&c.Person,
		&c.Tense,
		&c.Conjugation,
		&c.Irregular,
		&c.Pronominal,
		&c.VerbGroup,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
