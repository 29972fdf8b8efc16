package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configFile string
	migrate    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "verba",
		Short: "Vocabulary and conjugation practice API",
		Long: `Vocabulary and conjugation practice API.

Run without a subcommand to start the HTTP server.

Configuration is read from .env, config.yaml and VERBA_* environment
variables, in increasing order of precedence.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml when present)")
	root.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <" + strings.Join(migrateCommands, "|") + ">",
		Short: "Run database schema migrations",
		Long: `Run database schema migrations.

  up       apply all pending migrations
  down     roll back the latest migration
  status   list migrations and whether they are applied
  version  print the current schema version
  reset    roll back every migration`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(opts)
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer closeDatabase(db, log)

			return runMigrations(cmd.Context(), db, args[0], log)
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				return errors.New("no password on stdin")
			}
			password := strings.TrimRight(scanner.Text(), "\r")
			if password == "" {
				return errors.New("password cannot be empty")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}

// bootstrap loads the configuration and installs the structured logger.
func bootstrap(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_enabled", cfg.Redis.Enabled()))
	return cfg, l, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}

	if opts.migrate {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			closeDatabase(db, log)
			return err
		}
	} else if err := checkSchemaCurrent(ctx, db, log); err != nil {
		log.Warn("schema check failed", slog.String("error", err.Error()))
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if err := app.setupRevoker(ctx); err != nil {
		return err
	}

	return app.Run(ctx)
}
