// Package testdb provides PostgreSQL connections for integration tests.
//
// Tests use DATABASE_URL when it is set. Otherwise a disposable
// postgres:16-alpine container is started once per test binary with
// testcontainers. Either way the embedded goose migrations are applied
// before the first connection is handed out, and WithTx gives each test a
// transaction that is always rolled back:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		userStore := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//		...
//	})
package testdb
