package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/verba-api/internal/api"
	apiMiddleware "github.com/phrazzld/verba-api/internal/api/middleware"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/redact"
)

const (
	healthTimeout = 2 * time.Second
	corsMaxAge    = 300
)

// setupRouter creates the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.revoker,
		&app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.revoker)
	loginLimiter := apiMiddleware.NewRateLimiter(app.config.Auth.LoginRatePerMinute, app.config.Auth.LoginBurst)

	wordHandler := api.NewWordHandler(app.vocabulary, app.logger)
	conjugationHandler := api.NewConjugationHandler(app.conjugations, app.logger)
	gameHandler := api.NewGameHandler(app.games, app.logger)
	statsHandler := api.NewStatsHandler(app.stats, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Limit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Route("/words", func(r chi.Router) {
				r.Get("/", wordHandler.ListWords)
				r.Post("/", wordHandler.AddWord)
				r.Post("/import", wordHandler.ImportWords)
				r.Get("/{id}", wordHandler.GetWord)
				r.Put("/{id}", wordHandler.UpdateWord)
				r.Delete("/{id}", wordHandler.DeleteWord)
			})

			r.Route("/conjugations", func(r chi.Router) {
				r.Get("/", conjugationHandler.ListConjugations)
				r.Post("/", conjugationHandler.AddConjugation)
				r.Post("/import", conjugationHandler.ImportConjugations)
				r.Get("/{id}", conjugationHandler.GetConjugation)
				r.Put("/{id}", conjugationHandler.UpdateConjugation)
				r.Delete("/{id}", conjugationHandler.DeleteConjugation)
			})

			r.Route("/games", func(r chi.Router) {
				r.Post("/words/start", gameHandler.StartWordGame)
				r.Post("/words/end", gameHandler.EndWordGame)
				r.Post("/conjugations/start", gameHandler.StartConjugationGame)
				r.Post("/conjugations/end", gameHandler.EndConjugationGame)
			})

			r.Get("/stats", statsHandler.GetStats)
		})
	})

	r.Get("/health", app.health)

	return r
}

// health answers 200 when the database is reachable.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Error("health check failed", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
