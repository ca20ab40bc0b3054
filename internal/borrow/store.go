// internal/borrow/store.go
package borrow

import "context"

// Store is the persistence port for borrow records. Implementations set
// CreatedAt/UpdatedAt on insert.
type Store interface {
	Insert(ctx context.Context, b *Borrow) error

	// Summary groups all borrow records by book, summing quantity, and joins
	// each group to its book. Groups whose book no longer exists are dropped
	// (inner-join semantics).
	Summary(ctx context.Context) ([]SummaryRow, error)
}
