// internal/testutil/memory.go

// Package testutil provides in-memory store implementations used by unit
// tests in place of Postgres.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookstack/internal/books"
	"bookstack/internal/borrow"
)

// MemBookStore is a map-backed books.Store.
type MemBookStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]books.Book

	// FailInsert makes Insert fail with the given error, for exercising
	// error paths.
	FailInsert error
}

func NewMemBookStore() *MemBookStore {
	return &MemBookStore{items: make(map[uuid.UUID]books.Book)}
}

func (s *MemBookStore) Insert(_ context.Context, b *books.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert != nil {
		return s.FailInsert
	}
	for _, existing := range s.items {
		if existing.ISBN == b.ISBN {
			return books.ErrDuplicateISBN
		}
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.items[b.ID] = *b
	return nil
}

func (s *MemBookStore) List(_ context.Context, q books.ListQuery) ([]books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]books.Book, 0, len(s.items))
	for _, b := range s.items {
		if q.Genre != "" && b.Genre != q.Genre {
			continue
		}
		list = append(list, b)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if q.Desc {
			return lessByColumn(q.SortBy, list[j], list[i])
		}
		return lessByColumn(q.SortBy, list[i], list[j])
	})

	if uint(len(list)) > q.Limit {
		list = list[:q.Limit]
	}
	return list, nil
}

func lessByColumn(column string, a, b books.Book) bool {
	switch column {
	case "title":
		return a.Title < b.Title
	case "author":
		return a.Author < b.Author
	case "genre":
		return a.Genre < b.Genre
	case "isbn":
		return a.ISBN < b.ISBN
	case "description":
		return a.Description < b.Description
	case "copies":
		return a.Copies < b.Copies
	case "available":
		return !a.Available && b.Available
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	default: // created_at
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (s *MemBookStore) GetByID(_ context.Context, id uuid.UUID) (*books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.items[id]
	if !ok {
		return nil, books.ErrNotFound
	}
	return &b, nil
}

func (s *MemBookStore) Update(_ context.Context, b *books.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[b.ID]; !ok {
		return books.ErrNotFound
	}
	for id, existing := range s.items {
		if id != b.ID && strings.EqualFold(existing.ISBN, b.ISBN) {
			return books.ErrDuplicateISBN
		}
	}

	b.UpdatedAt = time.Now().UTC()
	s.items[b.ID] = *b
	return nil
}

func (s *MemBookStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return books.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemBookStore) DecrementCopies(_ context.Context, id uuid.UUID, quantity int) (*books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.items[id]
	if !ok {
		return nil, books.ErrNotFound
	}
	if b.Copies < quantity {
		return nil, books.ErrInsufficientCopies
	}

	b.Copies -= quantity
	b.Available = b.Copies > 0
	b.UpdatedAt = time.Now().UTC()
	s.items[id] = b
	return &b, nil
}

func (s *MemBookStore) IncrementCopies(_ context.Context, id uuid.UUID, quantity int) (*books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.items[id]
	if !ok {
		return nil, books.ErrNotFound
	}

	b.Copies += quantity
	b.Available = b.Copies > 0
	b.UpdatedAt = time.Now().UTC()
	s.items[id] = b
	return &b, nil
}

// MemBorrowStore is a slice-backed borrow.Store. Summary joins against the
// given book store, dropping borrows whose book is gone.
type MemBorrowStore struct {
	mu      sync.Mutex
	records []borrow.Borrow
	books   *MemBookStore

	FailInsert error
}

func NewMemBorrowStore(bookStore *MemBookStore) *MemBorrowStore {
	return &MemBorrowStore{books: bookStore}
}

func (s *MemBorrowStore) Insert(_ context.Context, b *borrow.Borrow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert != nil {
		return s.FailInsert
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.records = append(s.records, *b)
	return nil
}

// Records returns a copy of all stored borrow records.
func (s *MemBorrowStore) Records() []borrow.Borrow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]borrow.Borrow(nil), s.records...)
}

func (s *MemBorrowStore) Summary(ctx context.Context) ([]borrow.SummaryRow, error) {
	s.mu.Lock()
	totals := make(map[uuid.UUID]int)
	for _, r := range s.records {
		totals[r.BookID] += r.Quantity
	}
	s.mu.Unlock()

	rows := []borrow.SummaryRow{}
	for id, total := range totals {
		book, err := s.books.GetByID(ctx, id)
		if err != nil {
			continue
		}
		rows = append(rows, borrow.SummaryRow{
			Book:          borrow.SummaryBook{Title: book.Title, ISBN: book.ISBN},
			TotalQuantity: total,
		})
	}
	return rows, nil
}
