package testdb

import (
	"database/sql"
	"fmt"

	"github.com/phrazzld/verba-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// ApplyMigrations brings db up to the latest embedded schema version.
func ApplyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrations.TableName)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
