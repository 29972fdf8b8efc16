package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWord(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("normalizes fields", func(t *testing.T) {
		t.Parallel()

		w, err := NewWord(userID, " maison ", []string{" house ", "", "House", "home"}, " noun ", "")
		require.NoError(t, err)

		assert.Equal(t, "maison", w.Word)
		assert.Equal(t, []string{"house", "home"}, w.Translations)
		assert.Equal(t, "noun", w.PartOfSpeech)
		assert.Equal(t, DefaultArticle, w.Article)
		assert.Equal(t, userID, w.UserID)
	})

	t.Run("missing word", func(t *testing.T) {
		t.Parallel()

		_, err := NewWord(userID, "  ", []string{"house"}, "noun", "la")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "word", vErr.Field)
	})

	t.Run("missing translations", func(t *testing.T) {
		t.Parallel()

		_, err := NewWord(userID, "maison", []string{" ", ""}, "noun", "la")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()

		_, err := NewWord(uuid.Nil, "maison", []string{"house"}, "noun", "la")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestWord_MergeTranslations(t *testing.T) {
	t.Parallel()

	w, err := NewWord(uuid.New(), "chat", []string{"cat"}, "noun", "le")
	require.NoError(t, err)

	changed := w.MergeTranslations([]string{"CAT", " "})
	assert.False(t, changed)
	assert.Equal(t, []string{"cat"}, w.Translations)

	changed = w.MergeTranslations([]string{"tomcat", "cat", "tomcat"})
	assert.True(t, changed)
	assert.Equal(t, []string{"cat", "tomcat"}, w.Translations)
}

func TestWord_Update(t *testing.T) {
	t.Parallel()

	w, err := NewWord(uuid.New(), "chien", []string{"dog"}, "noun", "le")
	require.NoError(t, err)

	require.NoError(t, w.Update("chienne", []string{"dog", "female dog"}, "noun", "la"))
	assert.Equal(t, "chienne", w.Word)
	assert.Equal(t, "la", w.Article)
	assert.Len(t, w.Translations, 2)

	assert.ErrorIs(t, w.Update("", []string{"dog"}, "noun", ""), ErrValidation)
}
