package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/domain/scoring"
	"github.com/phrazzld/verba-api/internal/mocks"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vocabularyFixture struct {
	words    *mocks.MockWordStore
	tracking *mocks.MockTrackingStore
	tx       *mocks.MockTransactor
	svc      service.VocabularyService
}

func newVocabularyFixture(t *testing.T) *vocabularyFixture {
	t.Helper()

	f := &vocabularyFixture{
		words:    &mocks.MockWordStore{},
		tracking: &mocks.MockTrackingStore{},
		tx:       &mocks.MockTransactor{},
	}
	svc, err := service.NewVocabularyService(f.words, f.tracking, f.tx, scoring.NewDefaultService(), nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestAddWord(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	t.Run("creates the word with a fresh tracking record", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)

		word, created, err := f.svc.AddWord(context.Background(), owner, service.WordInput{
			Word:         "  maison ",
			Translations: []string{"house", " home ", ""},
			PartOfSpeech: "noun",
		})
		require.NoError(t, err)

		assert.True(t, created)
		assert.Equal(t, "maison", word.Word)
		assert.Equal(t, []string{"house", "home"}, word.Translations)
		assert.Equal(t, domain.DefaultArticle, word.Article)

		require.Len(t, f.tracking.Created, 1)
		tracking := f.tracking.Created[0]
		assert.Equal(t, word.ID, tracking.ItemID)
		assert.Equal(t, owner, tracking.UserID)
		assert.Equal(t, domain.KindWord, tracking.Kind)
		assert.Zero(t, tracking.TotalAttempts)
		assert.Empty(t, tracking.MistakeTimestamps)
		assert.Nil(t, tracking.LastAccessed)
		assert.Equal(t, 5.0, tracking.Score)
		assert.Equal(t, 1, f.tx.Committed)
	})

	t.Run("merges new translations into an existing word", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)

		existing, err := domain.NewWord(owner, "chat", []string{"cat"}, "noun", "le")
		require.NoError(t, err)
		f.words.FindByTextFn = func(_ context.Context, userID uuid.UUID, text string) (*domain.Word, error) {
			assert.Equal(t, owner, userID)
			assert.Equal(t, "Chat", text)
			return existing, nil
		}

		word, created, err := f.svc.AddWord(context.Background(), owner, service.WordInput{
			Word:         "Chat",
			Translations: []string{"CAT", "tomcat"},
		})
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, existing.ID, word.ID)
		assert.Equal(t, []string{"cat", "tomcat"}, word.Translations)
		assert.Len(t, f.words.Updated, 1)
		assert.Empty(t, f.words.Created)
		assert.Empty(t, f.tracking.Created)
	})

	t.Run("validation fails before any transaction", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)

		_, _, err := f.svc.AddWord(context.Background(), owner, service.WordInput{Word: "chien", Translations: []string{" "}})

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, f.tx.Calls)
	})

	t.Run("tracking failure rolls back the word", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		f.tracking.CreateFn = func(context.Context, *domain.TrackingRecord) error {
			return errors.New("disk full")
		}

		_, _, err := f.svc.AddWord(context.Background(), owner, service.WordInput{Word: "chien", Translations: []string{"dog"}})

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "add_word", serviceErr.Operation)
		assert.Equal(t, 1, f.tx.RolledBack)
	})

	t.Run("concurrent duplicate surfaces as conflict", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		f.words.CreateFn = func(context.Context, *domain.Word) error {
			return store.ErrWordExists
		}

		_, _, err := f.svc.AddWord(context.Background(), owner, service.WordInput{Word: "chien", Translations: []string{"dog"}})
		assert.ErrorIs(t, err, store.ErrWordExists)
	})
}

func TestUpdateWord(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	t.Run("replaces the editable fields", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		existing, err := domain.NewWord(owner, "chat", []string{"cat"}, "noun", "le")
		require.NoError(t, err)
		f.words.GetByIDFn = func(_ context.Context, userID, id uuid.UUID) (*domain.Word, error) {
			assert.Equal(t, owner, userID)
			return existing, nil
		}

		word, err := f.svc.UpdateWord(context.Background(), owner, existing.ID, service.WordInput{
			Word:         "chatte",
			Translations: []string{"cat"},
			PartOfSpeech: "noun",
			Article:      "la",
		})
		require.NoError(t, err)
		assert.Equal(t, "chatte", word.Word)
		assert.Equal(t, "la", word.Article)
		assert.Len(t, f.words.Updated, 1)
	})

	t.Run("missing word is not found", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)

		_, err := f.svc.UpdateWord(context.Background(), owner, uuid.New(), service.WordInput{
			Word: "x", Translations: []string{"y"},
		})
		assert.ErrorIs(t, err, store.ErrWordNotFound)
	})

	t.Run("invalid update is a validation error", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		existing, err := domain.NewWord(owner, "chat", []string{"cat"}, "noun", "")
		require.NoError(t, err)
		f.words.GetByIDFn = func(context.Context, uuid.UUID, uuid.UUID) (*domain.Word, error) {
			return existing, nil
		}

		_, err = f.svc.UpdateWord(context.Background(), owner, existing.ID, service.WordInput{Word: ""})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, f.words.Updated)
	})
}

func TestDeleteWord(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	t.Run("removes tracking before the word", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		wordID := uuid.New()

		var order []string
		f.tracking.DeleteFn = func(_ context.Context, _ uuid.UUID, kind domain.ItemKind, id uuid.UUID) error {
			assert.Equal(t, domain.KindWord, kind)
			assert.Equal(t, wordID, id)
			order = append(order, "tracking")
			return nil
		}
		f.words.DeleteFn = func(context.Context, uuid.UUID, uuid.UUID) error {
			order = append(order, "word")
			return nil
		}

		require.NoError(t, f.svc.DeleteWord(context.Background(), owner, wordID))
		assert.Equal(t, []string{"tracking", "word"}, order)
	})

	t.Run("missing tracking record is tolerated", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		f.tracking.DeleteFn = func(context.Context, uuid.UUID, domain.ItemKind, uuid.UUID) error {
			return store.ErrTrackingNotFound
		}

		assert.NoError(t, f.svc.DeleteWord(context.Background(), owner, uuid.New()))
	})

	t.Run("missing word is not found", func(t *testing.T) {
		t.Parallel()
		f := newVocabularyFixture(t)
		f.words.DeleteFn = func(context.Context, uuid.UUID, uuid.UUID) error {
			return store.ErrWordNotFound
		}

		assert.ErrorIs(t, f.svc.DeleteWord(context.Background(), owner, uuid.New()), store.ErrWordNotFound)
		assert.Equal(t, 1, f.tx.RolledBack)
	})
}

func TestImportWords(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	f := newVocabularyFixture(t)

	existing, err := domain.NewWord(owner, "chat", []string{"cat"}, "noun", "")
	require.NoError(t, err)
	f.words.FindByTextFn = func(_ context.Context, _ uuid.UUID, text string) (*domain.Word, error) {
		if text == "chat" {
			return existing, nil
		}
		return nil, store.ErrWordNotFound
	}

	summary, err := f.svc.ImportWords(context.Background(), owner, []service.WordInput{
		{Word: "maison", Translations: []string{"house"}},
		{Word: "chat", Translations: []string{"cat"}},
		{Word: "chat", Translations: []string{"kitty"}},
		{Word: "", Translations: []string{"nothing"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, 3, summary.Failures[0].Index)
}

func TestImportWords_StopsWhenCancelled(t *testing.T) {
	t.Parallel()
	f := newVocabularyFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.svc.ImportWords(ctx, uuid.New(), []service.WordInput{{Word: "a", Translations: []string{"b"}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Created)
}
