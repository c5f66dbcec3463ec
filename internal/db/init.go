// Package db opens the Postgres connection pool and bootstraps the schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/multierr"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    display_name  TEXT NOT NULL,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_at      TIMESTAMPTZ NOT NULL,
    completed   BOOLEAN NOT NULL DEFAULT FALSE,
    owner_id    BIGINT NOT NULL REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS tasks_owner_id_idx ON tasks (owner_id);

CREATE TABLE IF NOT EXISTS items (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    task_id     BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS items_task_id_idx ON items (task_id);
`

// InitPostgres opens a pool for dsn, checks connectivity and applies the
// schema. The pool is closed again if any step fails.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := Bootstrap(context.Background(), db); err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	return db, nil
}

// Bootstrap pings db and creates missing tables.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}
