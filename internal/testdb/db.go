package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection and migration work during setup.
const TestTimeout = 60 * time.Second

var (
	setupOnce sync.Once
	sharedURL string
	setupErr  error
)

// GetTestDatabaseURL returns DATABASE_URL, or the empty string when it is unset.
func GetTestDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// databaseURL resolves the URL once per test binary, starting a container
// and migrating it when DATABASE_URL is not set.
func databaseURL() (string, error) {
	setupOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()

		url := GetTestDatabaseURL()
		if url == "" {
			// The container lives until the test binary exits.
			url, _, setupErr = startContainer(ctx)
			if setupErr != nil {
				return
			}
		}

		db, err := open(ctx, url)
		if err != nil {
			setupErr = err
			return
		}
		defer func() { _ = db.Close() }()

		if err := ApplyMigrations(db); err != nil {
			setupErr = err
			return
		}
		sharedURL = url
	})
	return sharedURL, setupErr
}

func open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// A freshly started container may refuse connections for a moment
	// after its port opens.
	for {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// GetTestDBWithT returns a migrated database connection that is closed
// when the test ends. The test is skipped when no database can be reached.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	url, err := databaseURL()
	if err != nil {
		t.Skipf("no test database available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := open(ctx, url)
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
