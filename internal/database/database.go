package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the connection pool
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// Connect creates a new database connection pool
func Connect(databaseURL string, maxConns int, log *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log.Info("database connected", zap.Int32("max_conns", poolConfig.MaxConns))
	return &DB{Pool: pool, log: log}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies every migration not yet recorded, in order
func RunMigrations(ctx context.Context, db *DB) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for i, migration := range migrations {
		version := i + 1

		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}

		if exists {
			continue
		}

		db.log.Info("applying migration", zap.Int("version", version))
		tx, err := db.Pool.Begin(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, migration); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}

// migrations run in slice order; version is index + 1
var migrations = []string{
	migration001,
	migration002,
	migration003,
}

const migration001 = `
-- Pantry lots. amount is double precision so the value the engine read can
-- be compared exactly when a drawdown is committed.
CREATE TABLE IF NOT EXISTS pantry_lots (
    id SERIAL PRIMARY KEY,
    owner_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    canonical_name VARCHAR(255) NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    unit VARCHAR(50) NOT NULL,
    category VARCHAR(100),
    expiration_date DATE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pantry_lots_owner ON pantry_lots(owner_id);
CREATE INDEX IF NOT EXISTS idx_pantry_lots_canonical ON pantry_lots(owner_id, canonical_name);
`

const migration002 = `
CREATE TABLE IF NOT EXISTS recipes (
    id SERIAL PRIMARY KEY,
    owner_id INT NOT NULL,
    title VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
    id SERIAL PRIMARY KEY,
    recipe_id INT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    position INT NOT NULL,
    raw_text TEXT NOT NULL,
    amount DOUBLE PRECISION,
    unit VARCHAR(50),
    UNIQUE (recipe_id, position)
);

CREATE INDEX IF NOT EXISTS idx_recipes_owner ON recipes(owner_id);
`

const migration003 = `
CREATE TABLE IF NOT EXISTS pantry_completions (
    id UUID PRIMARY KEY,
    owner_id INT NOT NULL,
    recipe_id INT REFERENCES recipes(id) ON DELETE SET NULL,
    attempts INT NOT NULL,
    result JSONB NOT NULL,
    archive_key TEXT,
    completed_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pantry_completions_owner ON pantry_completions(owner_id, completed_at DESC);
`
