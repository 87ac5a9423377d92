// Package postgres is the networked ledger backend over a pgx pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/config"
)

const pingTimeout = 5 * time.Second

// Connect opens the ledger pool sized from config and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.DBMaxConns
	pc.MinConns = cfg.DBMinConns
	pc.MaxConnLifetime = cfg.DBMaxConnLife

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"host":      pc.ConnConfig.Host,
			"database":  pc.ConnConfig.Database,
			"max_conns": pc.MaxConns,
		}).Info("postgres ledger connected")
	}
	return pool, nil
}
