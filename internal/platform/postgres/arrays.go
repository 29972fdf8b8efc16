package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// newTypeMap returns the pgtype registry used to scan PostgreSQL arrays
// through database/sql. A Map caches scan plans and is not safe for
// concurrent use, so each query builds its own.
func newTypeMap() *pgtype.Map {
	return pgtype.NewMap()
}

// nonNil returns s, or an empty slice when s is nil, so NOT NULL array
// columns receive '{}' rather than NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
