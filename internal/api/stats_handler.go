package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/service"
)

// StatsHandler serves the progress report.
type StatsHandler struct {
	stats  service.StatsService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}
	return &StatsHandler{
		stats:  stats,
		logger: logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /api/stats?range=all|week|month.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	rng, err := service.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.stats.GetStats(r.Context(), userID, rng)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
