// internal/borrow/service.go
package borrow

import "context"

// Service defines the interface for the borrowing service.
type Service interface {
	Borrow(ctx context.Context, in Input) (*Borrow, error)
	Summary(ctx context.Context) ([]SummaryRow, error)
}
