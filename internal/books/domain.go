// internal/books/domain.go
package books

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"bookstack/internal/apperror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Genre is a fixed enumeration of book categories.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreScience    Genre = "SCIENCE"
	GenreHistory    Genre = "HISTORY"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreFantasy    Genre = "FANTASY"
)

var genres = []Genre{
	GenreFiction, GenreNonFiction, GenreScience,
	GenreHistory, GenreBiography, GenreFantasy,
}

// Valid reports whether g is one of the known genres.
func (g Genre) Valid() bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}

const (
	maxTitleLen       = 200
	maxAuthorLen      = 100
	maxDescriptionLen = 1000
)

// Book is a catalog record. Available is derived: true iff Copies > 0.
type Book struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Genre       Genre     `json:"genre" db:"genre"`
	ISBN        string    `json:"isbn" db:"isbn"`
	Description string    `json:"description,omitempty" db:"description"`
	Copies      int       `json:"copies" db:"copies"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateBookInput is the payload accepted by the create operation. Copies is
// a pointer so a missing field is distinguishable from an explicit zero.
type CreateBookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
	Copies      *int   `json:"copies"`
}

// UpdateBookInput is a partial payload; nil fields are left untouched.
type UpdateBookInput struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	Copies      *int    `json:"copies"`
	Available   *bool   `json:"available"`
}

var (
	isbnCharset = regexp.MustCompile(`^[0-9\-\s]+$`)
	isbnDigits  = regexp.MustCompile(`^(?:[0-9]{10}|[0-9]{13})$`)
)

const isbnHelp = `ISBN should be 10 or 13 digits long. You can include hyphens or spaces (e.g., "0-7475-3269-9" or "978-0-7475-3269-9")`

// NormalizeISBN strips hyphens and whitespace from an ISBN string.
func NormalizeISBN(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, raw)
}

func checkISBN(raw string) *apperror.FieldError {
	if raw == "" {
		return &apperror.FieldError{Field: "isbn", Message: "ISBN is required"}
	}
	if !isbnCharset.MatchString(raw) {
		return &apperror.FieldError{
			Field:   "isbn",
			Message: "ISBN can only contain numbers, hyphens, and spaces",
			Value:   raw,
			Help:    isbnHelp,
		}
	}
	if !isbnDigits.MatchString(NormalizeISBN(raw)) {
		return &apperror.FieldError{
			Field:   "isbn",
			Message: "ISBN must be exactly 10 or 13 digits (hyphens and spaces allowed)",
			Value:   raw,
			Help:    isbnHelp,
		}
	}
	return nil
}

func checkGenre(raw string) *apperror.FieldError {
	if raw == "" {
		return &apperror.FieldError{Field: "genre", Message: "Genre is required"}
	}
	if !Genre(raw).Valid() {
		return &apperror.FieldError{
			Field:   "genre",
			Message: "Genre must be one of: FICTION, NON_FICTION, SCIENCE, HISTORY, BIOGRAPHY, FANTASY",
			Value:   raw,
		}
	}
	return nil
}

// Validate checks every field constraint and reports all failures at once.
func (in *CreateBookInput) Validate() error {
	var fields []apperror.FieldError

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fields = append(fields, apperror.FieldError{Field: "title", Message: "Title is required"})
	case utf8.RuneCountInString(title) > maxTitleLen:
		fields = append(fields, apperror.FieldError{Field: "title", Message: "Title cannot exceed 200 characters", Value: in.Title})
	}

	author := strings.TrimSpace(in.Author)
	switch {
	case author == "":
		fields = append(fields, apperror.FieldError{Field: "author", Message: "Author is required"})
	case utf8.RuneCountInString(author) > maxAuthorLen:
		fields = append(fields, apperror.FieldError{Field: "author", Message: "Author name cannot exceed 100 characters", Value: in.Author})
	}

	if fe := checkGenre(in.Genre); fe != nil {
		fields = append(fields, *fe)
	}
	if fe := checkISBN(strings.TrimSpace(in.ISBN)); fe != nil {
		fields = append(fields, *fe)
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) > maxDescriptionLen {
		fields = append(fields, apperror.FieldError{Field: "description", Message: "Description cannot exceed 1000 characters"})
	}

	switch {
	case in.Copies == nil:
		fields = append(fields, apperror.FieldError{Field: "copies", Message: "Copies is required"})
	case *in.Copies < 0:
		fields = append(fields, apperror.FieldError{Field: "copies", Message: "Copies must be a non-negative integer", Value: *in.Copies})
	}

	if len(fields) > 0 {
		return apperror.Validation(fields...)
	}
	return nil
}

// Validate checks only the fields present in the patch.
func (in *UpdateBookInput) Validate() error {
	var fields []apperror.FieldError

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			fields = append(fields, apperror.FieldError{Field: "title", Message: "Title is required"})
		case utf8.RuneCountInString(title) > maxTitleLen:
			fields = append(fields, apperror.FieldError{Field: "title", Message: "Title cannot exceed 200 characters", Value: *in.Title})
		}
	}

	if in.Author != nil {
		author := strings.TrimSpace(*in.Author)
		switch {
		case author == "":
			fields = append(fields, apperror.FieldError{Field: "author", Message: "Author is required"})
		case utf8.RuneCountInString(author) > maxAuthorLen:
			fields = append(fields, apperror.FieldError{Field: "author", Message: "Author name cannot exceed 100 characters", Value: *in.Author})
		}
	}

	if in.Genre != nil {
		if fe := checkGenre(*in.Genre); fe != nil {
			fields = append(fields, *fe)
		}
	}

	if in.ISBN != nil {
		if fe := checkISBN(strings.TrimSpace(*in.ISBN)); fe != nil {
			fields = append(fields, *fe)
		}
	}

	if in.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Description)) > maxDescriptionLen {
		fields = append(fields, apperror.FieldError{Field: "description", Message: "Description cannot exceed 1000 characters"})
	}

	if in.Copies != nil && *in.Copies < 0 {
		fields = append(fields, apperror.FieldError{Field: "copies", Message: "Copies must be a non-negative integer", Value: *in.Copies})
	}

	if len(fields) > 0 {
		return apperror.Validation(fields...)
	}
	return nil
}

// Apply copies the patch onto the book. Available is re-derived whenever
// Copies changes, overriding any explicit value in the same patch.
func (in *UpdateBookInput) Apply(b *Book) {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Genre != nil {
		b.Genre = Genre(*in.Genre)
	}
	if in.ISBN != nil {
		b.ISBN = strings.TrimSpace(*in.ISBN)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Available != nil {
		b.Available = *in.Available
	}
	if in.Copies != nil {
		b.Copies = *in.Copies
		b.Available = b.Copies > 0
	}
}

var allowedUpdateFields = map[string]bool{
	"title":       true,
	"author":      true,
	"genre":       true,
	"isbn":        true,
	"description": true,
	"copies":      true,
	"available":   true,
}

// DecodeUpdate parses a partial book payload, rejecting any key outside the
// allowed field set.
func DecodeUpdate(raw []byte) (*UpdateBookInput, error) {
	var keys map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, apperror.New(apperror.KindValidation, "Invalid request body")
	}

	var unknown []string
	for k := range keys {
		if !allowedUpdateFields[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, apperror.Newf(apperror.KindValidation, "Unknown fields: %s", strings.Join(unknown, ", "))
	}

	var in UpdateBookInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, apperror.New(apperror.KindValidation, "Invalid request body")
	}
	return &in, nil
}
