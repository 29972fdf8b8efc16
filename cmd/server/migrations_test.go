package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goose keeps package-level state, so these tests do not run in parallel.

func TestRunMigrations_UnknownCommand(t *testing.T) {
	err := runMigrations(context.Background(), nil, "create", discardLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestLatestMigrationVersion(t *testing.T) {
	require.NoError(t, configureGoose(discardLogger))

	version, err := latestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)
}
