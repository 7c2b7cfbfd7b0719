package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminboard/dashboard-api/internal/infrastructure/config"
)

func TestOpenUserRepository_SQLite(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreSQLite}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "users.db")

	repo, closeFn, err := OpenUserRepository(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(closeFn)

	assert.NoError(t, repo.Ping(context.Background()))
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpenUserRepository_UnknownDriver(t *testing.T) {
	_, _, err := OpenUserRepository(context.Background(), &config.Config{StoreDriver: "dynamo"})
	assert.ErrorContains(t, err, "dynamo")
}
