// internal/books/handler.go
package books

import (
	"io"
	"net/http"
	"strconv"

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

// Register mounts the book routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{bookId}", h.handleGet)
		r.Put("/{bookId}", h.handleUpdate)
		r.Delete("/{bookId}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateBookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}

	book, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, "Book created successfully", book)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{
		Filter: r.URL.Query().Get("filter"),
		SortBy: r.URL.Query().Get("sortBy"),
		Sort:   r.URL.Query().Get("sort"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Error(w, apperror.New(apperror.KindValidation, "Limit must be an integer"))
			return
		}
		opts.Limit = limit
	}

	list, err := h.service.List(r.Context(), opts)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Books retrieved successfully", list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Book retrieved successfully", book)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.Error(w, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}

	book, err := h.service.Update(r.Context(), chi.URLParam(r, "bookId"), patch)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Book updated successfully", book)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "bookId")); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Book deleted successfully", nil)
}
