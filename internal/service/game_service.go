package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/domain/scoring"
	"github.com/phrazzld/verba-api/internal/domain/selection"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// WordGameRequest selects the words for a vocabulary game.
type WordGameRequest struct {
	Filter           domain.WordFilter
	Limit            *int // nil means the configured default
	TimeLimitSeconds *int // nil means the configured default
}

// WordGame is a drawn vocabulary session.
type WordGame struct {
	Words            []*domain.Word
	TimeLimitSeconds int
}

// ConjugationGameRequest selects the conjugations for a conjugation game.
type ConjugationGameRequest struct {
	Filter           domain.ConjugationFilter
	Limit            *int
	TimeLimitSeconds *int
}

// ConjugationGame is a drawn conjugation session.
type ConjugationGame struct {
	Conjugations     []*domain.Conjugation
	TimeLimitSeconds int
}

// RunRecord is the result of recording a finished game.
type RunRecord struct {
	Run     *domain.GameRun
	Updated []uuid.UUID // items whose tracking record was updated
	Skipped []uuid.UUID // outcome ids that matched no tracking record of the owner
}

// GameService starts and ends game sessions.
type GameService interface {
	// StartWordGame checks tracking integrity, heals low scores and draws
	// a weighted random selection of the owner's matching words.
	StartWordGame(ctx context.Context, userID uuid.UUID, req WordGameRequest) (*WordGame, error)

	// StartConjugationGame is StartWordGame for conjugations.
	StartConjugationGame(ctx context.Context, userID uuid.UUID, req ConjugationGameRequest) (*ConjugationGame, error)

	// EndWordGame appends the run and applies every outcome in one
	// transaction. Outcomes for unknown items are skipped.
	EndWordGame(
		ctx context.Context,
		userID uuid.UUID,
		meta domain.RunMetadata,
		outcomes []domain.Outcome,
	) (*RunRecord, error)

	// EndConjugationGame is EndWordGame for conjugations.
	EndConjugationGame(
		ctx context.Context,
		userID uuid.UUID,
		meta domain.RunMetadata,
		outcomes []domain.Outcome,
	) (*RunRecord, error)
}

// globalRand draws from the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// GameServiceOption configures optional collaborators of the game service.
type GameServiceOption func(*gameServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GameServiceOption {
	return func(s *gameServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandSource replaces the random source used by the weighted draw.
func WithRandSource(rng selection.Source) GameServiceOption {
	return func(s *gameServiceImpl) {
		if rng != nil {
			s.rng = rng
		}
	}
}

type gameServiceImpl struct {
	wordStore        store.WordStore
	conjugationStore store.ConjugationStore
	trackingStore    store.TrackingStore
	runStore         store.GameRunStore
	tx               store.Transactor
	scoring          scoring.Service
	cfg              config.GameConfig
	now              func() time.Time
	rng              selection.Source
	logger           *slog.Logger
}

var _ GameService = (*gameServiceImpl)(nil)

// NewGameService creates a new GameService.
// It returns an error if any of the required dependencies are nil.
func NewGameService(
	wordStore store.WordStore,
	conjugationStore store.ConjugationStore,
	trackingStore store.TrackingStore,
	runStore store.GameRunStore,
	tx store.Transactor,
	scoringService scoring.Service,
	cfg config.GameConfig,
	logger *slog.Logger,
	opts ...GameServiceOption,
) (GameService, error) {
	switch {
	case wordStore == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "wordStore cannot be nil"}
	case conjugationStore == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "conjugationStore cannot be nil"}
	case trackingStore == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "trackingStore cannot be nil"}
	case runStore == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "runStore cannot be nil"}
	case tx == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "tx cannot be nil"}
	case scoringService == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "scoringService cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &gameServiceImpl{
		wordStore:        wordStore,
		conjugationStore: conjugationStore,
		trackingStore:    trackingStore,
		runStore:         runStore,
		tx:               tx,
		scoring:          scoringService,
		cfg:              cfg,
		now:              time.Now,
		rng:              globalRand{},
		logger:           logger.With(slog.String("component", "game_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartWordGame implements GameService.StartWordGame
func (s *gameServiceImpl) StartWordGame(
	ctx context.Context,
	userID uuid.UUID,
	req WordGameRequest,
) (*WordGame, error) {
	timeLimit, err := s.resolveTimeLimit(req.TimeLimitSeconds)
	if err != nil {
		return nil, err
	}

	filter := req.Filter.Normalize()
	words, err := selectItems(ctx, s, userID, domain.KindWord, req.Limit,
		func(ctx context.Context) ([]domain.PoolEntry[*domain.Word], error) {
			return s.wordStore.Pool(ctx, userID, filter)
		})
	if err != nil {
		return nil, err
	}

	return &WordGame{Words: words, TimeLimitSeconds: timeLimit}, nil
}

// StartConjugationGame implements GameService.StartConjugationGame
func (s *gameServiceImpl) StartConjugationGame(
	ctx context.Context,
	userID uuid.UUID,
	req ConjugationGameRequest,
) (*ConjugationGame, error) {
	timeLimit, err := s.resolveTimeLimit(req.TimeLimitSeconds)
	if err != nil {
		return nil, err
	}

	filter := req.Filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	conjugations, err := selectItems(ctx, s, userID, domain.KindConjugation, req.Limit,
		func(ctx context.Context) ([]domain.PoolEntry[*domain.Conjugation], error) {
			return s.conjugationStore.Pool(ctx, userID, filter)
		})
	if err != nil {
		return nil, err
	}

	return &ConjugationGame{Conjugations: conjugations, TimeLimitSeconds: timeLimit}, nil
}

func (s *gameServiceImpl) resolveTimeLimit(requested *int) (int, error) {
	if requested == nil {
		return s.cfg.DefaultTimeLimitSeconds, nil
	}
	if *requested < 0 {
		return 0, domain.NewValidationError("time_limit", "cannot be negative", nil)
	}
	return *requested, nil
}

// selectItems runs the selection pipeline: integrity check, heal, filtered
// pool, weighted draw. No transaction is held once it returns.
func selectItems[T any](
	ctx context.Context,
	s *gameServiceImpl,
	userID uuid.UUID,
	kind domain.ItemKind,
	requested *int,
	pool func(ctx context.Context) ([]domain.PoolEntry[T], error),
) ([]T, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	op := "start_" + kind.String() + "_game"

	if requested != nil && *requested < 0 {
		return nil, domain.NewValidationError("limit", "cannot be negative", nil)
	}
	limit := selection.ResolveLimit(requested, s.cfg.DefaultPoolLimit, s.cfg.MaxPoolLimit)

	// The check and the heal run in separate transactions. Items are
	// created together with their tracking row, so nothing added in
	// between can break the checked invariant.
	if err := s.checkIntegrity(ctx, userID, kind); err != nil {
		if errors.Is(err, domain.ErrDataIntegrity) {
			return nil, err
		}
		return nil, NewServiceError(op, "failed to check tracking integrity", err)
	}

	healed, err := s.heal(ctx, userID, kind)
	if err != nil {
		log.Error("failed to heal scores",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return nil, NewServiceError(op, "failed to heal scores", err)
	}

	entries, err := pool(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to load pool",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()))
		return nil, NewServiceError(op, "failed to load pool", err)
	}

	items := selection.Draw(entries, limit, s.rng)
	log.Debug("selected game items",
		slog.String("user_id", userID.String()),
		slog.String("kind", kind.String()),
		slog.Int("healed", healed),
		slog.Int("pool", len(entries)),
		slog.Int("selected", len(items)))
	return items, nil
}

// checkIntegrity returns a *domain.DataIntegrityError when items and
// tracking records of the owner do not pair up one to one.
func (s *gameServiceImpl) checkIntegrity(ctx context.Context, userID uuid.UUID, kind domain.ItemKind) error {
	report, err := s.trackingStore.CheckIntegrity(ctx, userID, kind)
	if err != nil {
		return err
	}
	if report.Consistent() {
		return nil
	}

	logger.FromContextOrDefault(ctx, s.logger).Error("tracking integrity violated",
		slog.String("user_id", userID.String()),
		slog.String("kind", kind.String()),
		slog.Int("orphaned_tracking", report.OrphanedTracking),
		slog.Int("untracked_items", report.UntrackedItems))
	return &domain.DataIntegrityError{
		Kind:             kind,
		OrphanedTracking: report.OrphanedTracking,
		UntrackedItems:   report.UntrackedItems,
	}
}

// heal recomputes every score below the heal floor in one transaction and
// returns how many records changed.
func (s *gameServiceImpl) heal(ctx context.Context, userID uuid.UUID, kind domain.ItemKind) (int, error) {
	now := s.now()
	healed := 0

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tracking := s.trackingStore.WithTx(tx)

		records, err := tracking.ListBelowFloor(ctx, userID, kind, s.scoring.HealFloor())
		if err != nil {
			return err
		}
		for _, record := range records {
			score, err := scoring.Heal(s.scoring, record, now)
			if err != nil {
				return err
			}
			if err := tracking.UpdateScore(ctx, userID, kind, record.ItemID, score); err != nil {
				return err
			}
		}
		healed = len(records)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return healed, nil
}

// EndWordGame implements GameService.EndWordGame
func (s *gameServiceImpl) EndWordGame(
	ctx context.Context,
	userID uuid.UUID,
	meta domain.RunMetadata,
	outcomes []domain.Outcome,
) (*RunRecord, error) {
	return s.endGame(ctx, userID, domain.KindWord, meta, outcomes)
}

// EndConjugationGame implements GameService.EndConjugationGame
func (s *gameServiceImpl) EndConjugationGame(
	ctx context.Context,
	userID uuid.UUID,
	meta domain.RunMetadata,
	outcomes []domain.Outcome,
) (*RunRecord, error) {
	return s.endGame(ctx, userID, domain.KindConjugation, meta, outcomes)
}

func (s *gameServiceImpl) endGame(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.ItemKind,
	meta domain.RunMetadata,
	outcomes []domain.Outcome,
) (*RunRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if outcomes == nil {
		return nil, domain.NewValidationError("results", "is required", nil)
	}

	now := s.now().UTC()
	run, err := domain.NewGameRun(userID, kind, meta, now)
	if err != nil {
		return nil, err
	}

	var updated, skipped []uuid.UUID
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		updated, skipped = make([]uuid.UUID, 0, len(outcomes)), make([]uuid.UUID, 0)
		tracking := s.trackingStore.WithTx(tx)

		if err := s.runStore.WithTx(tx).Create(ctx, run); err != nil {
			return err
		}

		for _, outcome := range outcomes {
			record, err := tracking.RecordAttempt(ctx, userID, kind, outcome.ItemID, outcome.Correct, now)
			if errors.Is(err, store.ErrTrackingNotFound) {
				log.Debug("skipping outcome for unknown item",
					slog.String("kind", kind.String()),
					slog.String("item_id", outcome.ItemID.String()))
				skipped = append(skipped, outcome.ItemID)
				continue
			}
			if err != nil {
				return err
			}

			score, err := scoring.PostAttempt(s.scoring, record, now)
			if err != nil {
				return err
			}
			if err := tracking.UpdateScore(ctx, userID, kind, outcome.ItemID, score); err != nil {
				return err
			}
			updated = append(updated, outcome.ItemID)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record game run",
			slog.String("error", err.Error()),
			slog.String("kind", kind.String()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("end_"+kind.String()+"_game", "failed to record game run", err)
	}

	log.Info("game run recorded",
		slog.String("run_id", run.ID.String()),
		slog.String("kind", kind.String()),
		slog.Int("updated", len(updated)),
		slog.Int("skipped", len(skipped)))
	return &RunRecord{Run: run, Updated: updated, Skipped: skipped}, nil
}
