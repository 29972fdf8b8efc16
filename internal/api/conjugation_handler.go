package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/service"
)

// ConjugationHandler handles conjugation HTTP requests.
type ConjugationHandler struct {
	conjugations service.ConjugationService
	logger       *slog.Logger
}

// NewConjugationHandler creates a new ConjugationHandler.
func NewConjugationHandler(conjugations service.ConjugationService, logger *slog.Logger) *ConjugationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ConjugationHandler")
	}
	return &ConjugationHandler{
		conjugations: conjugations,
		logger:       logger.With(slog.String("component", "conjugation_handler")),
	}
}

// AddConjugation handles POST /api/conjugations. An existing
// (verb, person, tense) answers 200 with created=false.
func (h *ConjugationHandler) AddConjugation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ConjugationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, created, err := h.conjugations.AddConjugation(r.Context(), userID, req.toParams())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add conjugation")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, AddConjugationResponse{
		Conjugation: conjugationToResponse(c),
		Created:     created,
	})
}

// ListConjugations handles GET /api/conjugations.
func (h *ConjugationHandler) ListConjugations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	cs, err := h.conjugations.ListConjugations(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list conjugations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, conjugationsToResponse(cs))
}

// GetConjugation handles GET /api/conjugations/{id}.
func (h *ConjugationHandler) GetConjugation(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	c, err := h.conjugations.GetConjugation(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get conjugation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, conjugationToResponse(c))
}

// UpdateConjugation handles PUT /api/conjugations/{id}.
func (h *ConjugationHandler) UpdateConjugation(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req ConjugationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.conjugations.UpdateConjugation(r.Context(), userID, id, req.toParams())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update conjugation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, conjugationToResponse(c))
}

// DeleteConjugation handles DELETE /api/conjugations/{id}.
func (h *ConjugationHandler) DeleteConjugation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.conjugations.DeleteConjugation(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete conjugation")
		return
	}

	log.Debug("conjugation deleted", slog.String("conjugation_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ImportConjugations handles POST /api/conjugations/import.
func (h *ConjugationHandler) ImportConjugations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ImportConjugationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rows := make([]domain.ConjugationParams, 0, len(req.Conjugations))
	for _, c := range req.Conjugations {
		rows = append(rows, c.toParams())
	}

	summary, err := h.conjugations.ImportConjugations(r.Context(), userID, rows)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import conjugations")
		return
	}

	log.Info("conjugations imported",
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
