// Package store opens the configured ledger backend.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/domain/repository"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/migrations"
	pginfra "github.com/abhishekverma0700/eduavaa/internal/infrastructure/postgres"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/sqlite"
)

// OpenLedger connects LEDGER_BACKEND, applies migrations when enabled and
// returns the repository with its close func.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.LedgerRepository, func(), error) {
	switch cfg.LedgerBackend {
	case "postgres":
		if cfg.MigrationsEnabled {
			if err := migrations.UpPostgres(cfg.PostgresDSN(), logger); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		pool, err := pginfra.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return pginfra.NewLedgerRepository(pool), pool.Close, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if cfg.MigrationsEnabled {
			if err := migrations.UpSQLite(db, logger); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		if logger != nil {
			logger.WithField("path", cfg.SQLitePath).Info("sqlite ledger opened")
		}
		return sqlite.NewLedgerRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown LEDGER_BACKEND %q", cfg.LedgerBackend)
	}
}
