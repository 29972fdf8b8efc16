package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/service"
)

// WordHandler handles vocabulary HTTP requests.
type WordHandler struct {
	vocabulary service.VocabularyService
	logger     *slog.Logger
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(vocabulary service.VocabularyService, logger *slog.Logger) *WordHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WordHandler")
	}
	return &WordHandler{
		vocabulary: vocabulary,
		logger:     logger.With(slog.String("component", "word_handler")),
	}
}

// AddWord handles POST /api/words. A new word answers 201; a merge into an
// existing word answers 200.
func (h *WordHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req WordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	word, created, err := h.vocabulary.AddWord(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add word")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	log.Debug("word added",
		slog.String("word_id", word.ID.String()),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, AddWordResponse{Word: wordToResponse(word), Created: created})
}

// ListWords handles GET /api/words.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	words, err := h.vocabulary.ListWords(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list words")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, wordsToResponse(words))
}

// GetWord handles GET /api/words/{id}.
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	word, err := h.vocabulary.GetWord(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, wordToResponse(word))
}

// UpdateWord handles PUT /api/words/{id}.
func (h *WordHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req WordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	word, err := h.vocabulary.UpdateWord(r.Context(), userID, wordID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, wordToResponse(word))
}

// DeleteWord handles DELETE /api/words/{id}.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.vocabulary.DeleteWord(r.Context(), userID, wordID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete word")
		return
	}

	log.Debug("word deleted", slog.String("word_id", wordID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ImportWords handles POST /api/words/import.
func (h *WordHandler) ImportWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ImportWordsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rows := make([]service.WordInput, 0, len(req.Words))
	for _, word := range req.Words {
		rows = append(rows, word.toInput())
	}

	summary, err := h.vocabulary.ImportWords(r.Context(), userID, rows)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import words")
		return
	}

	log.Info("words imported",
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
