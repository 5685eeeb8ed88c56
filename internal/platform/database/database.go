// Package database opens the store.Store selected by configuration.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/memory"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/platform/sqlite"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

const (
	pingTimeout     = 5 * time.Second
	connMaxLifetime = 5 * time.Minute
)

// Handle is an open store and what is needed to release it.
type Handle struct {
	Store store.Store
	// DB is the postgres connection pool; nil for other drivers.
	DB *sql.DB

	close func() error
}

// Close releases the underlying connection, if any.
func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// OpenPostgres opens a pgx connection pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("database connection established", "driver", config.DriverPostgres)
	return db, nil
}

// Open returns the store for cfg.Driver. For postgres, pending migrations
// are applied when migrate is true.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrate bool, logger *slog.Logger) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		return &Handle{Store: postgres.NewStore(db, logger), DB: db, close: db.Close}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database opened", "driver", config.DriverSQLite, "path", cfg.SQLitePath)
		return &Handle{Store: s, close: s.Close}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return &Handle{Store: memory.NewStore(logger)}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
