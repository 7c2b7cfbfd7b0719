// Package db opens the user store selected by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/adminboard/dashboard-api/internal/core/ports"
	"github.com/adminboard/dashboard-api/internal/infrastructure/config"
	mongostore "github.com/adminboard/dashboard-api/internal/infrastructure/db/mongo"
	"github.com/adminboard/dashboard-api/internal/infrastructure/db/postgres"
	"github.com/adminboard/dashboard-api/internal/infrastructure/db/sqlstore"
)

// OpenUserRepository connects to the configured backend, makes sure the
// uniqueness constraint on email exists and returns the repository together
// with a function that releases the connection.
func OpenUserRepository(ctx context.Context, cfg *config.Config) (ports.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := mongostore.NewUserRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, closeFn, nil

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, nil, err
		}

		repo := postgres.NewUserRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case config.StoreSQLite:
		gdb, err := sqlstore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return sqlstore.NewUserRepository(gdb), closeFn, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
