package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/verba-api/internal/importer"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/spf13/cobra"
)

// importOptions holds the flags of `verba import`.
type importOptions struct {
	username string
	importer.Options
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	iopts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import words or conjugations from an .xlsx or .csv file",
		Long: `Bulk import words or conjugations from an .xlsx or .csv file.

Word columns:        word, translations (";"-separated), part of speech, article
Conjugation columns: verb, person, tense, conjugation, irregular, pronominal, group

Rows go through the same validation and merge rules as the API.`,
	}
	cmd.PersistentFlags().StringVar(&iopts.username, "user", "", "username that owns the imported entries")
	cmd.PersistentFlags().StringVar(&iopts.Path, "file", "", "path to the .xlsx or .csv file")
	cmd.PersistentFlags().StringVar(&iopts.Sheet, "sheet", "", "sheet to read (xlsx only, default first sheet)")
	cmd.PersistentFlags().IntVar(&iopts.StartRow, "start-row", importer.DefaultStartRow, "first row to read, 1-based")
	_ = cmd.MarkPersistentFlagRequired("user")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "words",
			Short: "Import vocabulary words",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withImportApp(cmd.Context(), opts, func(app *application) error {
					return importWords(cmd.Context(), app, iopts, cmd.OutOrStdout())
				})
			},
		},
		&cobra.Command{
			Use:   "conjugations",
			Short: "Import verb conjugations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withImportApp(cmd.Context(), opts, func(app *application) error {
					return importConjugations(cmd.Context(), app, iopts, cmd.OutOrStdout())
				})
			},
		},
	)
	return cmd
}

func withImportApp(ctx context.Context, opts *rootOptions, fn func(*application) error) error {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return fn(app)
}

func importWords(ctx context.Context, app *application, opts *importOptions, out io.Writer) error {
	user, err := app.userService.GetUserByUsername(ctx, opts.username)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", opts.username, err)
	}

	parsed, err := importer.ReadWords(opts.Options)
	if err != nil {
		return err
	}

	var summary *service.ImportSummary
	if len(parsed.Rows) > 0 {
		summary, err = app.vocabulary.ImportWords(ctx, user.ID, parsed.Rows)
		if err != nil {
			return fmt.Errorf("failed to import words: %w", err)
		}
	}

	app.logger.Info("word import finished",
		slog.String("file", opts.Path),
		slog.Int("rows", len(parsed.Rows)),
		slog.Int("unparsed", len(parsed.Problems)))
	return writeImportReport(out, summary, parsed.Problems, parsed.Line)
}

func importConjugations(ctx context.Context, app *application, opts *importOptions, out io.Writer) error {
	user, err := app.userService.GetUserByUsername(ctx, opts.username)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", opts.username, err)
	}

	parsed, err := importer.ReadConjugations(opts.Options)
	if err != nil {
		return err
	}

	var summary *service.ImportSummary
	if len(parsed.Rows) > 0 {
		summary, err = app.conjugations.ImportConjugations(ctx, user.ID, parsed.Rows)
		if err != nil {
			return fmt.Errorf("failed to import conjugations: %w", err)
		}
	}

	app.logger.Info("conjugation import finished",
		slog.String("file", opts.Path),
		slog.Int("rows", len(parsed.Rows)),
		slog.Int("unparsed", len(parsed.Problems)))
	return writeImportReport(out, summary, parsed.Problems, parsed.Line)
}

// writeImportReport prints the summary followed by one line per rejected
// row. line maps an index of the imported rows back to its file row.
func writeImportReport(
	out io.Writer,
	summary *service.ImportSummary,
	problems []*importer.RowError,
	line func(int) int,
) error {
	if summary == nil {
		summary = &service.ImportSummary{}
	}

	if _, err := fmt.Fprintf(out, "created: %d\nupdated: %d\nskipped: %d\nerrors:  %d\n",
		summary.Created, summary.Updated, summary.Skipped, summary.Errors+len(problems)); err != nil {
		return err
	}

	for _, p := range problems {
		if _, err := fmt.Fprintf(out, "row %d: %v\n", p.Row, p.Err); err != nil {
			return err
		}
	}
	for _, f := range summary.Failures {
		if _, err := fmt.Fprintf(out, "row %d: %s\n", line(f.Index), f.Error); err != nil {
			return err
		}
	}
	return nil
}
