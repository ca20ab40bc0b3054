// internal/books/store.go
package books

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("book not found")
	ErrDuplicateISBN      = errors.New("duplicate isbn")
	ErrInsufficientCopies = errors.New("insufficient copies")
)

// ListQuery is a store-level listing request. SortBy is a column name
// already vetted by the service layer.
type ListQuery struct {
	Genre  Genre
	SortBy string
	Desc   bool
	Limit  uint
}

// Store is the persistence port for catalog records. Implementations set
// CreatedAt/UpdatedAt on write.
type Store interface {
	Insert(ctx context.Context, b *Book) error
	List(ctx context.Context, q ListQuery) ([]Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementCopies subtracts quantity from copies in a single conditional
	// update that only fires while copies >= quantity, re-deriving available
	// in the same statement. It returns ErrInsufficientCopies when the book
	// exists but has too few copies.
	DecrementCopies(ctx context.Context, id uuid.UUID, quantity int) (*Book, error)

	// IncrementCopies adds quantity back, compensating a decrement whose
	// follow-up work failed.
	IncrementCopies(ctx context.Context, id uuid.UUID, quantity int) (*Book, error)
}
