package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/domain/scoring"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// ConjugationService manages an owner's conjugations and their tracking records.
type ConjugationService interface {
	// AddConjugation inserts a conjugation with a fresh tracking record.
	// When the owner already has the verb, person and tense, the existing
	// entry is returned unchanged and created is false.
	AddConjugation(
		ctx context.Context,
		userID uuid.UUID,
		params domain.ConjugationParams,
	) (c *domain.Conjugation, created bool, err error)

	// ListConjugations returns the owner's conjugations, oldest first.
	ListConjugations(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error)

	// GetConjugation returns one of the owner's conjugations or store.ErrConjugationNotFound.
	GetConjugation(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error)

	// UpdateConjugation replaces the editable fields of a conjugation.
	UpdateConjugation(
		ctx context.Context,
		userID, id uuid.UUID,
		params domain.ConjugationParams,
	) (*domain.Conjugation, error)

	// DeleteConjugation removes a conjugation and its tracking record.
	DeleteConjugation(ctx context.Context, userID, id uuid.UUID) error

	// ImportConjugations adds each row independently.
	ImportConjugations(ctx context.Context, userID uuid.UUID, rows []domain.ConjugationParams) (*ImportSummary, error)
}

type conjugationServiceImpl struct {
	conjugationStore store.ConjugationStore
	trackingStore    store.TrackingStore
	tx               store.Transactor
	scoring          scoring.Service
	logger           *slog.Logger
}

var _ ConjugationService = (*conjugationServiceImpl)(nil)

// NewConjugationService creates a new ConjugationService.
// It returns an error if any of the required dependencies are nil.
func NewConjugationService(
	conjugationStore store.ConjugationStore,
	trackingStore store.TrackingStore,
	tx store.Transactor,
	scoringService scoring.Service,
	logger *slog.Logger,
) (ConjugationService, error) {
	if conjugationStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "conjugationStore cannot be nil"}
	}
	if trackingStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "trackingStore cannot be nil"}
	}
	if tx == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "tx cannot be nil"}
	}
	if scoringService == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "scoringService cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &conjugationServiceImpl{
		conjugationStore: conjugationStore,
		trackingStore:    trackingStore,
		tx:               tx,
		scoring:          scoringService,
		logger:           logger.With(slog.String("component", "conjugation_service")),
	}, nil
}

// AddConjugation implements ConjugationService.AddConjugation
func (s *conjugationServiceImpl) AddConjugation(
	ctx context.Context,
	userID uuid.UUID,
	params domain.ConjugationParams,
) (*domain.Conjugation, bool, error) {
	c, outcome, err := s.addConjugation(ctx, userID, params)
	if err != nil {
		return nil, false, err
	}
	return c, outcome == addCreated, nil
}

func (s *conjugationServiceImpl) addConjugation(
	ctx context.Context,
	userID uuid.UUID,
	params domain.ConjugationParams,
) (*domain.Conjugation, addOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate, err := domain.NewConjugation(userID, params)
	if err != nil {
		return nil, 0, err
	}

	var (
		result  *domain.Conjugation
		outcome addOutcome
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		conjugations := s.conjugationStore.WithTx(tx)

		existing, err := conjugations.FindByKey(ctx, userID, candidate.Verb, candidate.Person, candidate.Tense)
		switch {
		case err == nil:
			result = existing
			outcome = addUnchanged
			return nil
		case !errors.Is(err, store.ErrConjugationNotFound):
			return err
		}

		if err := conjugations.Create(ctx, candidate); err != nil {
			return err
		}
		result = candidate
		outcome = addCreated
		tracking := newTrackingRecord(s.scoring, userID, domain.KindConjugation, candidate.ID)
		return s.trackingStore.WithTx(tx).Create(ctx, tracking)
	})
	if err != nil {
		if errors.Is(err, store.ErrConjugationExists) {
			return nil, 0, store.ErrConjugationExists
		}
		log.Error("failed to add conjugation",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, NewServiceError("add_conjugation", "failed to save conjugation", err)
	}

	return result, outcome, nil
}

// ListConjugations implements ConjugationService.ListConjugations
func (s *conjugationServiceImpl) ListConjugations(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error) {
	conjugations, err := s.conjugationStore.List(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list conjugations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_conjugations", "failed to list conjugations", err)
	}
	return conjugations, nil
}

// GetConjugation implements ConjugationService.GetConjugation
func (s *conjugationServiceImpl) GetConjugation(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error) {
	c, err := s.conjugationStore.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrConjugationNotFound) {
			return nil, store.ErrConjugationNotFound
		}
		return nil, NewServiceError("get_conjugation", "failed to load conjugation", err)
	}
	return c, nil
}

// UpdateConjugation implements ConjugationService.UpdateConjugation
func (s *conjugationServiceImpl) UpdateConjugation(
	ctx context.Context,
	userID, id uuid.UUID,
	params domain.ConjugationParams,
) (*domain.Conjugation, error) {
	var updated *domain.Conjugation
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		conjugations := s.conjugationStore.WithTx(tx)

		c, err := conjugations.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := c.Update(params); err != nil {
			return err
		}
		if err := conjugations.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		case errors.Is(err, store.ErrConjugationNotFound):
			return nil, store.ErrConjugationNotFound
		case errors.Is(err, store.ErrConjugationExists):
			return nil, store.ErrConjugationExists
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update conjugation",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", id.String()))
		return nil, NewServiceError("update_conjugation", "failed to update conjugation", err)
	}

	return updated, nil
}

// DeleteConjugation implements ConjugationService.DeleteConjugation
func (s *conjugationServiceImpl) DeleteConjugation(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		err := s.trackingStore.WithTx(tx).Delete(ctx, userID, domain.KindConjugation, id)
		if err != nil && !errors.Is(err, store.ErrTrackingNotFound) {
			return err
		}
		return s.conjugationStore.WithTx(tx).Delete(ctx, userID, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrConjugationNotFound) {
			return store.ErrConjugationNotFound
		}
		log.Error("failed to delete conjugation",
			slog.String("error", err.Error()),
			slog.String("conjugation_id", id.String()))
		return NewServiceError("delete_conjugation", "failed to delete conjugation", err)
	}

	log.Info("conjugation deleted", slog.String("conjugation_id", id.String()))
	return nil
}

// ImportConjugations implements ConjugationService.ImportConjugations
func (s *conjugationServiceImpl) ImportConjugations(
	ctx context.Context,
	userID uuid.UUID,
	rows []domain.ConjugationParams,
) (*ImportSummary, error) {
	summary := &ImportSummary{}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		_, outcome, err := s.addConjugation(ctx, userID, row)
		if err != nil {
			summary.fail(i, err)
			continue
		}
		summary.record(outcome)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("conjugations imported",
		slog.String("user_id", userID.String()),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors))
	return summary, nil
}
