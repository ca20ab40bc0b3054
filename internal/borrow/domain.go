// internal/borrow/domain.go
package borrow

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"bookstack/internal/apperror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Borrow is a loan of quantity copies of a book, due back by DueDate.
// Borrow records are write-once: nothing in the system updates or deletes
// them, and a deleted book leaves its borrows dangling.
type Borrow struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"book" db:"book_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	DueDate   time.Time `json:"dueDate" db:"due_date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Input is the borrow request payload.
type Input struct {
	Book     string     `json:"book"`
	Quantity *int       `json:"quantity"`
	DueDate  *time.Time `json:"dueDate"`
}

// Validate checks quantity and due date against the given request time.
// The book reference format is checked separately by the service.
func (in *Input) Validate(now time.Time) error {
	var fields []apperror.FieldError

	switch {
	case in.Quantity == nil:
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "Quantity is required"})
	case *in.Quantity < 1:
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "Quantity must be at least 1", Value: *in.Quantity})
	}

	switch {
	case in.DueDate == nil:
		fields = append(fields, apperror.FieldError{Field: "dueDate", Message: "Due date is required"})
	case !in.DueDate.After(now):
		fields = append(fields, apperror.FieldError{Field: "dueDate", Message: "Due date must be in the future", Value: in.DueDate.Format(time.RFC3339)})
	}

	if in.Book == "" {
		fields = append(fields, apperror.FieldError{Field: "book", Message: "Book reference is required"})
	}

	if len(fields) > 0 {
		return apperror.Validation(fields...)
	}
	return nil
}

// SummaryBook is the projected book slice of a summary row.
type SummaryBook struct {
	Title string `json:"title" db:"title"`
	ISBN  string `json:"isbn" db:"isbn"`
}

// SummaryRow is the total quantity borrowed for one book across all
// borrow records.
type SummaryRow struct {
	Book          SummaryBook `json:"book" db:"book"`
	TotalQuantity int         `json:"totalQuantity" db:"total_quantity"`
}
