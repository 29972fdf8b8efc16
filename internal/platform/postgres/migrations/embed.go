// Package migrations embeds the goose SQL migrations for the verba schema.
package migrations

import "embed"

// TableName is the goose version table.
const TableName = "schema_migrations"

// FS holds the migration files at its root.
//
//go:embed *.sql
var FS embed.FS
