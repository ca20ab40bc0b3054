// internal/borrow/implementation.go
package borrow

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"bookstack/internal/apperror"
	"bookstack/internal/books"
)

// service implements the Service interface.
type service struct {
	store Store
	books books.Store
	now   func() time.Time
}

// NewService creates a new borrowing service instance.
func NewService(store Store, bookStore books.Store) Service {
	return &service{
		store: store,
		books: bookStore,
		now:   time.Now,
	}
}

// Borrow creates a borrow record and takes the requested copies off the
// book's stock. The decrement is a single conditional update, so concurrent
// borrows cannot take the same copies twice; if the follow-up insert fails,
// the copies are credited back.
func (s *service) Borrow(ctx context.Context, in Input) (*Borrow, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	quantity := *in.Quantity

	bookID, err := books.ParseID(in.Book)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Book not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong!", err)
	}

	if book.Copies < quantity {
		return nil, apperror.InsufficientStock(book.Copies, quantity)
	}

	if _, err := s.books.DecrementCopies(ctx, bookID, quantity); err != nil {
		switch {
		case errors.Is(err, books.ErrInsufficientCopies):
			// Lost a race against another borrow since the read above.
			available := book.Copies
			if current, getErr := s.books.GetByID(ctx, bookID); getErr == nil {
				available = current.Copies
			}
			return nil, apperror.InsufficientStock(available, quantity)
		case errors.Is(err, books.ErrNotFound):
			return nil, apperror.New(apperror.KindNotFound, "Book not found")
		default:
			return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong!", err)
		}
	}

	record := &Borrow{
		ID:       uuid.New(),
		BookID:   bookID,
		Quantity: quantity,
		DueDate:  *in.DueDate,
	}

	if err := s.store.Insert(ctx, record); err != nil {
		// Compensate the decrement so stock is not lost.
		if _, compErr := s.books.IncrementCopies(ctx, bookID, quantity); compErr != nil {
			log.Printf("failed to compensate stock for book %s: %v", bookID, compErr)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong!", err)
	}

	return record, nil
}

func (s *service) Summary(ctx context.Context) ([]SummaryRow, error) {
	rows, err := s.store.Summary(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong!", err)
	}
	return rows, nil
}
