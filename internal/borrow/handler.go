// internal/borrow/handler.go
package borrow

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookstack/internal/apperror"
	"bookstack/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the borrow routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/borrow", h.handleBorrow)
	r.Get("/borrow", h.handleSummary)
}

func (h *Handler) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}

	record, err := h.service.Borrow(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, "Book borrowed successfully", record)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Summary(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Borrowed books summary retrieved successfully", rows)
}
