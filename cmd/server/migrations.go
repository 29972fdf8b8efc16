package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// migrateCommands lists the goose commands exposed by `verba migrate`.
var migrateCommands = []string{"up", "down", "status", "version", "reset"}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It does not exit; the failure is
// returned to the caller, which decides how the process ends.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func configureGoose(logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrations.TableName)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// runMigrations executes a goose command against the embedded migrations.
// Every log line of one run shares a correlation id.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if !slices.Contains(migrateCommands, command) {
		return fmt.Errorf("unknown migration command %q (expected one of %s)",
			command, strings.Join(migrateCommands, ", "))
	}

	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.NewString()),
		slog.String("command", command),
	)
	if err := configureGoose(log); err != nil {
		return err
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("starting migration command", slog.Int64("current_version", before))

	start := time.Now()
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "version":
		err = goose.VersionContext(ctx, db, ".")
	}
	duration := time.Since(start)

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	after, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("migration command completed",
		slog.Int64("previous_version", before),
		slog.Int64("new_version", after),
		slog.Int64("duration_ms", duration.Milliseconds()))
	return nil
}

// latestMigrationVersion returns the highest version among the embedded
// migrations.
func latestMigrationVersion() (int64, error) {
	found, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := found.Last()
	if err != nil {
		return 0, fmt.Errorf("no embedded migrations: %w", err)
	}
	return last.Version, nil
}

// checkSchemaCurrent warns when the database lags the embedded migrations.
// It never migrates; `verba migrate up` or --migrate does that.
func checkSchemaCurrent(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "migrations"))
	if err := configureGoose(log); err != nil {
		return err
	}

	latest, err := latestMigrationVersion()
	if err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if current < latest {
		log.Warn("database schema is behind the embedded migrations",
			slog.Int64("current_version", current),
			slog.Int64("latest_version", latest))
		return nil
	}
	log.Debug("database schema is current", slog.Int64("version", current))
	return nil
}
