// internal/borrow/postgres.go
package borrow

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStore persists borrow records in Postgres.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a Postgres-backed borrow store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("bookstack/borrow"),
	}
}

func (s *PostgresStore) Insert(ctx context.Context, b *Borrow) error {
	ctx, span := s.tracer.Start(ctx, "borrow.insert",
		trace.WithAttributes(
			attribute.String("borrow.id", b.ID.String()),
			attribute.String("book.id", b.BookID.String()),
			attribute.Int("quantity", b.Quantity),
		),
	)
	defer span.End()

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO borrows (id, book_id, quantity, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, b.ID, b.BookID, b.Quantity, b.DueDate, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert borrow: %w", err)
	}
	return nil
}

// Summary is the SQL rendition of the original group/join/project pipeline:
// the inner join drops borrows whose book has been deleted.
func (s *PostgresStore) Summary(ctx context.Context) ([]SummaryRow, error) {
	ctx, span := s.tracer.Start(ctx, "borrow.summary")
	defer span.End()

	query := `
		SELECT b.title AS "book.title", b.isbn AS "book.isbn",
		       SUM(br.quantity) AS total_quantity
		FROM borrows br
		JOIN books b ON b.id = br.book_id
		GROUP BY b.id, b.title, b.isbn
	`

	rows := []SummaryRow{}
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate borrows: %w", err)
	}
	return rows, nil
}
