// internal/books/implementation.go
package books

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"bookstack/internal/apperror"
)

const (
	defaultSortBy = "createdAt"
	defaultLimit  = 10
)

// sortColumns maps API sort field names onto store columns.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"author":      "author",
	"genre":       "genre",
	"isbn":        "isbn",
	"copies":      "copies",
	"available":   "available",
	"description": "description",
}

// service implements the Service interface.
type service struct {
	store Store
}

// NewService creates a new catalog service instance.
func NewService(store Store) Service {
	return &service{store: store}
}

// ParseID validates an identifier from the request path or a payload.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindValidation, "Invalid book ID format")
	}
	return id, nil
}

func (s *service) Create(ctx context.Context, in CreateBookInput) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	copies := *in.Copies
	book := &Book{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Genre:       Genre(in.Genre),
		ISBN:        strings.TrimSpace(in.ISBN),
		Description: strings.TrimSpace(in.Description),
		Copies:      copies,
		Available:   copies > 0,
	}

	if err := s.store.Insert(ctx, book); err != nil {
		return nil, translateStoreError(err)
	}
	return book, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Book, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, apperror.Newf(apperror.KindValidation, "Invalid sort field: %s", sortBy)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := ListQuery{
		Genre:  Genre(opts.Filter),
		SortBy: column,
		Desc:   opts.Sort == "desc",
		Limit:  uint(limit),
	}

	list, err := s.store.List(ctx, query)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, rawID string) (*Book, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return book, nil
}

func (s *service) Update(ctx context.Context, rawID string, patch []byte) (*Book, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	in, err := DecodeUpdate(patch)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	in.Apply(book)

	if err := s.store.Update(ctx, book); err != nil {
		return nil, translateStoreError(err)
	}
	return book, nil
}

func (s *service) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// translateStoreError lifts store sentinels into the API error taxonomy.
func translateStoreError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperror.New(apperror.KindNotFound, "Book not found")
	case errors.Is(err, ErrDuplicateISBN):
		return apperror.New(apperror.KindDuplicateKey, "A book with this ISBN already exists")
	default:
		return apperror.Wrap(apperror.KindInternal, "Something went wrong!", err)
	}
}
