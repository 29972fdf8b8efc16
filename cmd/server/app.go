package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/domain/scoring"
	"github.com/phrazzld/verba-api/internal/platform/postgres"
	redisstore "github.com/phrazzld/verba-api/internal/platform/redis"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/service/auth"
	"github.com/phrazzld/verba-api/internal/store"
)

// redisPingTimeout bounds the startup reachability check.
const redisPingTimeout = 5 * time.Second

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	revoker    auth.Revoker
	closers    []func() error

	userService  service.UserService
	vocabulary   service.VocabularyService
	conjugations service.ConjugationService
	games        service.GameService
	stats        service.StatsService
}

// newApplication wires the stores and services on top of db. Revocations
// start out in process memory; setupRevoker moves them to Redis when it is
// configured.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		revoker: auth.NewMemoryRevoker(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	tx := store.NewSQLTransactor(db)
	scorer := scoring.NewDefaultService()

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	wordStore := postgres.NewPostgresWordStore(db, logger)
	conjugationStore := postgres.NewPostgresConjugationStore(db, logger)
	trackingStore := postgres.NewPostgresTrackingStore(db, logger)
	runStore := postgres.NewPostgresGameRunStore(db, logger)
	statsStore := postgres.NewPostgresStatsStore(db, logger)

	app.userService, err = service.NewUserService(userStore, tx, auth.NewBcryptVerifier(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.vocabulary, err = service.NewVocabularyService(wordStore, trackingStore, tx, scorer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create vocabulary service: %w", err)
	}

	app.conjugations, err = service.NewConjugationService(conjugationStore, trackingStore, tx, scorer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create conjugation service: %w", err)
	}

	app.games, err = service.NewGameService(
		wordStore,
		conjugationStore,
		trackingStore,
		runStore,
		tx,
		scorer,
		cfg.Game,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	app.stats, err = service.NewStatsService(statsStore, runStore, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// setupRevoker switches token revocation to Redis when an address is
// configured. An unreachable server fails startup rather than silently
// forgetting logouts.
func (app *application) setupRevoker(ctx context.Context) error {
	if !app.config.Redis.Enabled() {
		app.logger.Info("token revocation kept in memory")
		return nil
	}

	rev := redisstore.NewRevoker(redisstore.NewClient(app.config.Redis), app.logger)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rev.Ping(pingCtx); err != nil {
		_ = rev.Close()
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	app.revoker = rev
	app.closers = append(app.closers, rev.Close)
	app.logger.Info("token revocation backed by redis", slog.String("addr", app.config.Redis.Addr))
	return nil
}

// Run serves the API until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	ln, err := listen(app.config.Server.Port)
	if err != nil {
		return err
	}

	if err := app.serve(ctx, ln, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil {
			app.logger.Error("error closing resource", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}

	app.logger.Info("application shutdown completed")
}
