// internal/books/service.go
package books

import "context"

// ListOptions carries the raw query parameters of a listing request;
// defaults and validation are applied by the service.
type ListOptions struct {
	Filter string
	SortBy string
	Sort   string
	Limit  int
}

// Service defines the interface for the catalog service.
type Service interface {
	Create(ctx context.Context, in CreateBookInput) (*Book, error)
	List(ctx context.Context, opts ListOptions) ([]Book, error)
	Get(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, id string, patch []byte) (*Book, error)
	Delete(ctx context.Context, id string) error
}
