// internal/books/postgres.go
package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const pgUniqueViolation = "23505"

const bookColumns = `id, title, author, genre, isbn, description, copies, available, created_at, updated_at`

// PostgresStore persists catalog records in Postgres.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a Postgres-backed book store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("bookstack/books"),
	}
}

func (s *PostgresStore) Insert(ctx context.Context, b *Book) error {
	ctx, span := s.tracer.Start(ctx, "books.insert",
		trace.WithAttributes(attribute.String("book.id", b.ID.String())),
	)
	defer span.End()

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO books (id, title, author, genre, isbn, description, copies, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Author, b.Genre, b.ISBN, b.Description, b.Copies, b.Available, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, q ListQuery) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.list",
		trace.WithAttributes(
			attribute.String("list.sort_by", q.SortBy),
			attribute.Bool("list.desc", q.Desc),
			attribute.Int("list.limit", int(q.Limit)),
		),
	)
	defer span.End()

	builder := goqu.Dialect("postgres").
		From("books").
		Select("id", "title", "author", "genre", "isbn", "description", "copies", "available", "created_at", "updated_at")

	if q.Genre != "" {
		builder = builder.Where(goqu.C("genre").Eq(string(q.Genre)))
	}

	order := goqu.I(q.SortBy).Asc()
	if q.Desc {
		order = goqu.I(q.SortBy).Desc()
	}
	builder = builder.Order(order).Limit(q.Limit)

	query, args, err := builder.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	list := []Book{}
	if err := s.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.get",
		trace.WithAttributes(attribute.String("book.id", id.String())),
	)
	defer span.End()

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book := &Book{}
	if err := s.db.GetContext(ctx, book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (s *PostgresStore) Update(ctx context.Context, b *Book) error {
	ctx, span := s.tracer.Start(ctx, "books.update",
		trace.WithAttributes(attribute.String("book.id", b.ID.String())),
	)
	defer span.End()

	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE books
		SET title = $1, author = $2, genre = $3, isbn = $4, description = $5,
		    copies = $6, available = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := s.db.ExecContext(ctx, query,
		b.Title, b.Author, b.Genre, b.ISBN, b.Description, b.Copies, b.Available, b.UpdatedAt, b.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "books.delete",
		trace.WithAttributes(attribute.String("book.id", id.String())),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementCopies runs a single conditional update so two concurrent borrows
// can never take the same copies twice.
func (s *PostgresStore) DecrementCopies(ctx context.Context, id uuid.UUID, quantity int) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.decrement_copies",
		trace.WithAttributes(
			attribute.String("book.id", id.String()),
			attribute.Int("quantity", quantity),
		),
	)
	defer span.End()

	query := `
		UPDATE books
		SET copies = copies - $1, available = copies - $1 > 0, updated_at = NOW()
		WHERE id = $2 AND copies >= $1
		RETURNING ` + bookColumns

	book := &Book{}
	err := s.db.GetContext(ctx, book, query, quantity, id)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to decrement copies: %w", err)
	}

	// No row matched: either the book is gone or it has too few copies.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrInsufficientCopies
}

func (s *PostgresStore) IncrementCopies(ctx context.Context, id uuid.UUID, quantity int) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.increment_copies",
		trace.WithAttributes(
			attribute.String("book.id", id.String()),
			attribute.Int("quantity", quantity),
		),
	)
	defer span.End()

	query := `
		UPDATE books
		SET copies = copies + $1, available = copies + $1 > 0, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + bookColumns

	book := &Book{}
	if err := s.db.GetContext(ctx, book, query, quantity, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to increment copies: %w", err)
	}
	return book, nil
}
