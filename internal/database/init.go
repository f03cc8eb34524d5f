package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/config"
)

// Initialize creates a database connection pool, applies migrations when
// configured to, and warns if the schema has never been migrated.
func Initialize(ctx context.Context, cfg *config.DatabaseConfig, log *logrus.Logger) (*DB, error) {
	if cfg.MigrateOnStart {
		if err := Migrate(cfg.DSN()); err != nil {
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var applied bool
	err = db.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'schema_migrations')",
	).Scan(&applied)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	if !applied {
		log.Warn("No migrations have been applied. Run `f1-api migrate up` before serving traffic")
	}

	return db, nil
}
