// internal/storage/postgres.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	author      TEXT NOT NULL,
	genre       TEXT NOT NULL,
	isbn        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	copies      INTEGER NOT NULL CHECK (copies >= 0),
	available   BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

-- No foreign key on book_id: deleting a book leaves its borrows dangling,
-- and the summary query drops them via its inner join.
CREATE TABLE IF NOT EXISTS borrows (
	id         UUID PRIMARY KEY,
	book_id    UUID NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	due_date   TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_borrows_book_id ON borrows (book_id);
`

// Migrate applies the idempotent schema bootstrap.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
