package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/domain/scoring"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
)

// WordInput carries the editable fields of a word.
type WordInput struct {
	Word         string
	Translations []string
	PartOfSpeech string
	Article      string
}

// addOutcome tells what an add did to the owner's collection.
type addOutcome int

const (
	addCreated addOutcome = iota
	addMerged
	addUnchanged
)

// ImportFailure records one row an import could not apply.
type ImportFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ImportSummary counts the outcome of a bulk import.
type ImportSummary struct {
	Created  int             `json:"created"`
	Updated  int             `json:"updated"`
	Skipped  int             `json:"skipped"`
	Errors   int             `json:"errors"`
	Failures []ImportFailure `json:"failures,omitempty"`
}

func (s *ImportSummary) record(outcome addOutcome) {
	switch outcome {
	case addCreated:
		s.Created++
	case addMerged:
		s.Updated++
	default:
		s.Skipped++
	}
}

func (s *ImportSummary) fail(index int, err error) {
	s.Errors++
	s.Failures = append(s.Failures, ImportFailure{Index: index, Error: err.Error()})
}

// VocabularyService manages an owner's words and their tracking records.
type VocabularyService interface {
	// AddWord inserts a word with a fresh tracking record. When the owner
	// already has the word, new translations are merged into it and created
	// is false.
	AddWord(ctx context.Context, userID uuid.UUID, in WordInput) (word *domain.Word, created bool, err error)

	// ListWords returns the owner's words, oldest first.
	ListWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)

	// GetWord returns one of the owner's words or store.ErrWordNotFound.
	GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error)

	// UpdateWord replaces the editable fields of a word.
	UpdateWord(ctx context.Context, userID, wordID uuid.UUID, in WordInput) (*domain.Word, error)

	// DeleteWord removes a word and its tracking record.
	DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error

	// ImportWords adds each row independently. Invalid rows are counted and
	// reported without aborting the import.
	ImportWords(ctx context.Context, userID uuid.UUID, rows []WordInput) (*ImportSummary, error)
}

type vocabularyServiceImpl struct {
	wordStore     store.WordStore
	trackingStore store.TrackingStore
	tx            store.Transactor
	scoring       scoring.Service
	logger        *slog.Logger
}

var _ VocabularyService = (*vocabularyServiceImpl)(nil)

// NewVocabularyService creates a new VocabularyService.
// It returns an error if any of the required dependencies are nil.
func NewVocabularyService(
	wordStore store.WordStore,
	trackingStore store.TrackingStore,
	tx store.Transactor,
	scoringService scoring.Service,
	logger *slog.Logger,
) (VocabularyService, error) {
	if wordStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "wordStore cannot be nil"}
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

	return &vocabularyServiceImpl{
		wordStore:     wordStore,
		trackingStore: trackingStore,
		tx:            tx,
		scoring:       scoringService,
		logger:        logger.With(slog.String("component", "vocabulary_service")),
	}, nil
}

// AddWord implements VocabularyService.AddWord
func (s *vocabularyServiceImpl) AddWord(
	ctx context.Context,
	userID uuid.UUID,
	in WordInput,
) (*domain.Word, bool, error) {
	word, outcome, err := s.addWord(ctx, userID, in)
	if err != nil {
		return nil, false, err
	}
	return word, outcome == addCreated, nil
}

func (s *vocabularyServiceImpl) addWord(
	ctx context.Context,
	userID uuid.UUID,
	in WordInput,
) (*domain.Word, addOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate, err := domain.NewWord(userID, in.Word, in.Translations, in.PartOfSpeech, in.Article)
	if err != nil {
		return nil, 0, err
	}

	var (
		result  *domain.Word
		outcome addOutcome
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.wordStore.WithTx(tx)

		existing, err := words.FindByText(ctx, userID, candidate.Word)
		switch {
		case err == nil:
			result = existing
			if !existing.MergeTranslations(candidate.Translations) {
				outcome = addUnchanged
				return nil
			}
			outcome = addMerged
			return words.Update(ctx, existing)
		case !errors.Is(err, store.ErrWordNotFound):
			return err
		}

		if err := words.Create(ctx, candidate); err != nil {
			return err
		}
		result = candidate
		outcome = addCreated
		tracking := newTrackingRecord(s.scoring, userID, domain.KindWord, candidate.ID)
		return s.trackingStore.WithTx(tx).Create(ctx, tracking)
	})
	if err != nil {
		if errors.Is(err, store.ErrWordExists) {
			return nil, 0, store.ErrWordExists
		}
		log.Error("failed to add word",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, NewServiceError("add_word", "failed to save word", err)
	}

	log.Debug("word added",
		slog.String("word_id", result.ID.String()),
		slog.Int("outcome", int(outcome)))
	return result, outcome, nil
}

// newTrackingRecord returns the record every new item starts with.
func newTrackingRecord(
	sc scoring.Service,
	userID uuid.UUID,
	kind domain.ItemKind,
	itemID uuid.UUID,
) *domain.TrackingRecord {
	return &domain.TrackingRecord{
		ItemID:            itemID,
		UserID:            userID,
		Kind:              kind,
		MistakeTimestamps: []time.Time{},
		Score:             sc.InitialScore(),
	}
}

// ListWords implements VocabularyService.ListWords
func (s *vocabularyServiceImpl) ListWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	words, err := s.wordStore.List(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list words",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_words", "failed to list words", err)
	}
	return words, nil
}

// GetWord implements VocabularyService.GetWord
func (s *vocabularyServiceImpl) GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error) {
	word, err := s.wordStore.GetByID(ctx, userID, wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, store.ErrWordNotFound
		}
		return nil, NewServiceError("get_word", "failed to load word", err)
	}
	return word, nil
}

// UpdateWord implements VocabularyService.UpdateWord
func (s *vocabularyServiceImpl) UpdateWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	in WordInput,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Word
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.wordStore.WithTx(tx)

		word, err := words.GetByID(ctx, userID, wordID)
		if err != nil {
			return err
		}
		if err := word.Update(in.Word, in.Translations, in.PartOfSpeech, in.Article); err != nil {
			return err
		}
		if err := words.Update(ctx, word); err != nil {
			return err
		}
		updated = word
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		case errors.Is(err, store.ErrWordNotFound):
			return nil, store.ErrWordNotFound
		case errors.Is(err, store.ErrWordExists):
			return nil, store.ErrWordExists
		}
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, NewServiceError("update_word", "failed to update word", err)
	}

	return updated, nil
}

// DeleteWord implements VocabularyService.DeleteWord
func (s *vocabularyServiceImpl) DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		err := s.trackingStore.WithTx(tx).Delete(ctx, userID, domain.KindWord, wordID)
		if err != nil && !errors.Is(err, store.ErrTrackingNotFound) {
			return err
		}
		return s.wordStore.WithTx(tx).Delete(ctx, userID, wordID)
	})
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return store.ErrWordNotFound
		}
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return NewServiceError("delete_word", "failed to delete word", err)
	}

	log.Info("word deleted", slog.String("word_id", wordID.String()))
	return nil
}

// ImportWords implements VocabularyService.ImportWords
func (s *vocabularyServiceImpl) ImportWords(
	ctx context.Context,
	userID uuid.UUID,
	rows []WordInput,
) (*ImportSummary, error) {
	summary := &ImportSummary{}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		_, outcome, err := s.addWord(ctx, userID, row)
		if err != nil {
			summary.fail(i, err)
			continue
		}
		summary.record(outcome)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("words imported",
		slog.String("user_id", userID.String()),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors))
	return summary, nil
}
