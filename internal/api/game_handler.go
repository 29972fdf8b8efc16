package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/service"
)

// GameHandler starts and ends game sessions.
type GameHandler struct {
	games  service.GameService
	logger *slog.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games service.GameService, logger *slog.Logger) *GameHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GameHandler")
	}
	return &GameHandler{
		games:  games,
		logger: logger.With(slog.String("component", "game_handler")),
	}
}

// StartWordGame handles POST /api/games/words/start.
func (h *GameHandler) StartWordGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartWordGameRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	game, err := h.games.StartWordGame(r.Context(), userID, service.WordGameRequest{
		Filter:           domain.WordFilter{PartsOfSpeech: req.PartsOfSpeech},
		Limit:            req.Limit,
		TimeLimitSeconds: req.TimeLimit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start game")
		return
	}

	log.Debug("word game started", slog.Int("words", len(game.Words)))
	shared.RespondWithJSON(w, r, http.StatusOK, StartWordGameResponse{
		Words:     wordsToResponse(game.Words),
		TimeLimit: game.TimeLimitSeconds,
	})
}

// StartConjugationGame handles POST /api/games/conjugations/start.
func (h *GameHandler) StartConjugationGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartConjugationGameRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	irregular, err := domain.ParseIrregularMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	pronominal, err := domain.ParseInclusionMode(req.PronominalMode)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("pronominal_mode", "must be one of both, only, exclude", err), "")
		return
	}

	game, err := h.games.StartConjugationGame(r.Context(), userID, service.ConjugationGameRequest{
		Filter: domain.ConjugationFilter{
			Tenses:     req.Tenses,
			Groups:     req.Groups,
			Irregular:  irregular,
			Pronominal: pronominal,
		},
		Limit:            req.Limit,
		TimeLimitSeconds: req.TimeLimit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start game")
		return
	}

	log.Debug("conjugation game started", slog.Int("conjugations", len(game.Conjugations)))
	shared.RespondWithJSON(w, r, http.StatusOK, StartConjugationGameResponse{
		Conjugations: conjugationsToResponse(game.Conjugations),
		TimeLimit:    game.TimeLimitSeconds,
	})
}

// EndWordGame handles POST /api/games/words/end.
func (h *GameHandler) EndWordGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req EndWordGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var outcomes []domain.Outcome
	if req.Results != nil {
		outcomes = make([]domain.Outcome, 0, len(req.Results))
		for _, res := range req.Results {
			outcomes = append(outcomes, domain.Outcome{ItemID: res.WordID, Correct: *res.Correct})
		}
	}

	rec, err := h.games.EndWordGame(r.Context(), userID, domain.RunMetadata{
		TotalAttempted:   req.TotalAttempts,
		TotalCorrect:     req.Score,
		TimeLimitSeconds: req.TimeLimit,
		ZenMode:          req.ZenMode,
		Ungraded:         req.Ungraded,
		GameType:         strings.TrimSpace(req.GameType),
		PartsOfSpeech:    req.PartsOfSpeech,
	}, outcomes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record game")
		return
	}

	log.Info("word game recorded",
		slog.String("run_id", rec.Run.ID.String()),
		slog.Int("updated", len(rec.Updated)),
		slog.Int("skipped", len(rec.Skipped)))
	shared.RespondWithJSON(w, r, http.StatusOK, runToResponse(rec))
}

// EndConjugationGame handles POST /api/games/conjugations/end. Clients
// that send only correct_answers have it recorded as the score, and the
// reverse. A body with neither is a validation error.
func (h *GameHandler) EndConjugationGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req EndConjugationGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var outcomes []domain.Outcome
	if req.Results != nil {
		outcomes = make([]domain.Outcome, 0, len(req.Results))
		for _, res := range req.Results {
			outcomes = append(outcomes, domain.Outcome{ItemID: res.ID, Correct: *res.Correct})
		}
	}

	// A run without either count reaches the recorder with a nil score and
	// is rejected there.
	score := req.Score
	if score == nil {
		score = req.CorrectAnswers
	}
	var correctAnswers int
	switch {
	case req.CorrectAnswers != nil:
		correctAnswers = *req.CorrectAnswers
	case score != nil:
		correctAnswers = *score
	}

	rec, err := h.games.EndConjugationGame(r.Context(), userID, domain.RunMetadata{
		TotalAttempted:   req.TotalAttempts,
		TotalCorrect:     score,
		TimeLimitSeconds: req.TimeLimit,
		ZenMode:          req.ZenMode,
		Ungraded:         req.Ungraded,
		Mode:             strings.ToLower(strings.TrimSpace(req.Mode)),
		CorrectAnswers:   correctAnswers,
		Tenses:           req.Tenses,
		Groups:           req.Groups,
		PronominalMode:   strings.ToLower(strings.TrimSpace(req.PronominalMode)),
	}, outcomes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record game")
		return
	}

	log.Info("conjugation game recorded",
		slog.String("run_id", rec.Run.ID.String()),
		slog.Int("updated", len(rec.Updated)),
		slog.Int("skipped", len(rec.Skipped)))
	shared.RespondWithJSON(w, r, http.StatusOK, runToResponse(rec))
}

// decodeOptional decodes a JSON body that may be absent. Start requests
// are all-optional, so an empty body selects every default.
func decodeOptional(w http.ResponseWriter, r *http.Request, req any) bool {
	err := shared.DecodeJSON(r, req)
	if err == nil || errors.Is(err, shared.ErrEmptyBody) {
		return true
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
	return false
}
