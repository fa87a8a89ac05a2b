// Package infrastructure opens the configured backing store.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/percefons/auth-service/internal/health"
	"github.com/percefons/auth-service/internal/infrastructure/postgres"
	"github.com/percefons/auth-service/internal/infrastructure/sqlite"
	"github.com/percefons/auth-service/internal/repository"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Users           repository.UserRepository
	Permissions     repository.PermissionRepository
	UserPermissions repository.UserPermissionRepository
	Pinger          health.Pinger

	close func()
}

func (s *Store) Close() { s.close() }

// Open connects with driver to url and makes sure the schema exists.
func Open(ctx context.Context, driver, url string, logger *slog.Logger) (*Store, error) {
	switch driver {
	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Users:           postgres.NewUserRepository(pool),
			Permissions:     postgres.NewPermissionRepository(pool),
			UserPermissions: postgres.NewUserPermissionRepository(pool, logger),
			Pinger:          pool,
			close:           pool.Close,
		}, nil

	case DriverSQLite:
		db, err := sqlite.Open(url)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:           sqlite.NewUserRepository(db),
			Permissions:     sqlite.NewPermissionRepository(db),
			UserPermissions: sqlite.NewUserPermissionRepository(db, logger),
			Pinger:          sqlite.NewPinger(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
