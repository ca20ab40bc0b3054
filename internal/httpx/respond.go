// internal/httpx/respond.go
package httpx

import (
	"errors"
	"log"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"bookstack/internal/apperror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var production = false

// SetProduction toggles production hardening: internal error causes are
// logged but never echoed in response bodies.
func SetProduction(p bool) {
	production = p
}

// envelope is the uniform response body shape.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// JSON writes a success envelope. A nil data still serializes as
// "data": null so clients always see the field.
func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Success: true, Message: message, Data: data}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindInsufficientStock:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicateKey:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a failure envelope derived from the error taxonomy.
// Unrecognized errors degrade to a generic 500; their cause is echoed only
// outside production.
func Error(w http.ResponseWriter, err error) {
	ae := apperror.As(err)

	payload := map[string]interface{}{
		"name":    ae.Kind,
		"message": ae.Message,
	}
	if ae.Details != nil {
		payload["details"] = ae.Details
	}

	if ae.Kind == apperror.KindInternal {
		log.Printf("internal error: %v", err)
		if production {
			write(w, http.StatusInternalServerError, envelope{
				Success: false,
				Message: "Something went wrong!",
			})
			return
		}
		if cause := errors.Unwrap(ae); cause != nil {
			payload["cause"] = cause.Error()
		}
	}

	write(w, statusOf(ae.Kind), envelope{
		Success: false,
		Message: ae.Message,
		Error:   payload,
	})
}

// NotFound is the handler for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusNotFound, envelope{
		Success: false,
		Message: "Not Found",
		Error: map[string]string{
			"path":    r.URL.Path,
			"message": "API endpoint not found",
		},
	})
}
