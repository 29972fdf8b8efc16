package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWord(owner uuid.UUID) *domain.Word {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Word{
		ID:           uuid.New(),
		UserID:       owner,
		Word:         "maison",
		Translations: []string{"house"},
		PartOfSpeech: "noun",
		Article:      "la",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestWordHandler_AddWord(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	tests := []struct {
		name       string
		body       any
		created    bool
		serviceErr error
		wantStatus int
	}{
		{
			name:       "new word",
			body:       WordRequest{Word: "maison", Translations: []string{"house"}},
			created:    true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "merged into an existing word",
			body:       WordRequest{Word: "maison", Translation: "home"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing translations",
			body:       WordRequest{Word: "maison"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank word",
			body:       WordRequest{Word: "  ", Translations: []string{"house"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       WordRequest{Word: "maison", Translations: []string{"house"}},
			serviceErr: errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			called := false
			vocab := &mockVocabularyService{
				addFn: func(_ context.Context, userID uuid.UUID, in service.WordInput) (*domain.Word, bool, error) {
					called = true
					assert.Equal(t, owner, userID)
					assert.NotEmpty(t, in.Translations)
					if tt.serviceErr != nil {
						return nil, false, tt.serviceErr
					}
					return sampleWord(owner), tt.created, nil
				},
			}
			h := NewWordHandler(vocab, discardLogger)

			rec := httptest.NewRecorder()
			h.AddWord(rec, newJSONRequest(t, http.MethodPost, "/api/words", tt.body, owner, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.False(t, called)
				return
			}
			if tt.serviceErr == nil {
				resp := decodeBody[AddWordResponse](t, rec)
				assert.Equal(t, tt.created, resp.Created)
				assert.Equal(t, "maison", resp.Word.Word)
			}
		})
	}
}

func TestWordRequest_Translations(t *testing.T) {
	t.Parallel()

	in := WordRequest{Word: "chat", Translations: []string{"cat"}, Translation: "tomcat"}.toInput()
	assert.Equal(t, []string{"cat", "tomcat"}, in.Translations)

	in = WordRequest{Word: "chat", Translations: []string{"cat"}}.toInput()
	assert.Equal(t, []string{"cat"}, in.Translations)
}

func TestWordHandler_GetUpdateDelete(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	word := sampleWord(owner)

	vocab := &mockVocabularyService{
		getFn: func(_ context.Context, userID, id uuid.UUID) (*domain.Word, error) {
			if userID == owner && id == word.ID {
				return word, nil
			}
			return nil, store.ErrWordNotFound
		},
		updateFn: func(_ context.Context, userID, id uuid.UUID, in service.WordInput) (*domain.Word, error) {
			if id != word.ID {
				return nil, store.ErrWordNotFound
			}
			updated := *word
			updated.Word = in.Word
			return &updated, nil
		},
		deleteFn: func(_ context.Context, userID, id uuid.UUID) error {
			if id != word.ID {
				return store.ErrWordNotFound
			}
			return nil
		},
	}
	h := NewWordHandler(vocab, discardLogger)
	params := map[string]string{"id": word.ID.String()}

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.GetWord(rec, newJSONRequest(t, http.MethodGet, "/api/words/"+word.ID.String(), nil, owner, params))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, word.ID, decodeBody[WordResponse](t, rec).ID)
	})

	t.Run("get for another owner is not found", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.GetWord(rec, newJSONRequest(t, http.MethodGet, "/api/words/x", nil, uuid.New(), params))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Word not found", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.GetWord(rec, newJSONRequest(t, http.MethodGet, "/api/words/42", nil, owner, map[string]string{"id": "42"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		body := WordRequest{Word: "maisonnette", Translations: []string{"cottage"}}
		h.UpdateWord(rec, newJSONRequest(t, http.MethodPut, "/api/words/x", body, owner, params))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "maisonnette", decodeBody[WordResponse](t, rec).Word)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.DeleteWord(rec, newJSONRequest(t, http.MethodDelete, "/api/words/x", nil, owner, params))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		other := map[string]string{"id": uuid.NewString()}
		h.DeleteWord(rec, newJSONRequest(t, http.MethodDelete, "/api/words/x", nil, owner, other))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.DeleteWord(rec, newJSONRequest(t, http.MethodDelete, "/api/words/x", nil, uuid.Nil, params))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWordHandler_ListWords(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	h := NewWordHandler(&mockVocabularyService{
		listFn: func(context.Context, uuid.UUID) ([]*domain.Word, error) { return nil, nil },
	}, discardLogger)

	rec := httptest.NewRecorder()
	h.ListWords(rec, newJSONRequest(t, http.MethodGet, "/api/words", nil, owner, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWordHandler_ImportWords(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	h := NewWordHandler(&mockVocabularyService{
		importFn: func(_ context.Context, _ uuid.UUID, rows []service.WordInput) (*service.ImportSummary, error) {
			require.Len(t, rows, 2)
			return &service.ImportSummary{Created: 1, Errors: 1, Failures: []service.ImportFailure{{Index: 1, Error: "bad"}}}, nil
		},
	}, discardLogger)

	body := ImportWordsRequest{Words: []WordRequest{
		{Word: "maison", Translations: []string{"house"}},
		{Word: ""},
	}}
	rec := httptest.NewRecorder()
	h.ImportWords(rec, newJSONRequest(t, http.MethodPost, "/api/words/import", body, owner, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[service.ImportSummary](t, rec)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Errors)
}
