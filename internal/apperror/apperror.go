// internal/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"
)

// Kind identifies a category of failure. The values are stable and appear
// verbatim in API error payloads.
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindNotFound          Kind = "NotFound"
	KindDuplicateKey      Kind = "DuplicateKeyError"
	KindInsufficientStock Kind = "InsufficientStock"
	KindInternal          Kind = "InternalError"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Help    string      `json:"help,omitempty"`
}

// Error is the canonical application error. It carries a kind, a
// human-readable message and optional structured details.
type Error struct {
	Kind    Kind                   `json:"name"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithDetails sets structured details and returns the error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// Validation builds a validation error from field-level failures. The
// message is derived the way the original API reported it: a lone ISBN
// failure gets its own headline.
func Validation(fields ...FieldError) *Error {
	message := "Validation failed"
	if len(fields) == 1 && fields[0].Field == "isbn" {
		message = "ISBN validation failed"
	}

	list := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		list = append(list, f)
	}

	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]interface{}{"errors": list},
	}
}

// InsufficientStock reports a borrow request that exceeds the copies on
// hand. Both counts ride along as structured details.
func InsufficientStock(available, requested int) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Message: fmt.Sprintf(
			"Not enough copies available. Available: %d, Requested: %d",
			available, requested,
		),
		Details: map[string]interface{}{
			"available": available,
			"requested": requested,
		},
	}
}

// KindOf classifies any error. Unrecognized errors degrade to KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As extracts the application error from err, or wraps err as an internal
// error so callers always have a structured shape to report.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindInternal, "Something went wrong!", err)
}
