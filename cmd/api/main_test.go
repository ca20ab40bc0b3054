// cmd/api/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstack/internal/books"
	"bookstack/internal/borrow"
	"bookstack/internal/config"
	"bookstack/internal/testutil"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	bookStore := testutil.NewMemBookStore()
	bookHandler := books.NewHandler(books.NewService(bookStore))

	borrowStore := testutil.NewMemBorrowStore(bookStore)
	borrowHandler := borrow.NewHandler(borrow.NewService(borrowStore, bookStore))

	cfg := &config.Config{Port: "0", AppEnv: "test"}
	return newRouter(cfg, bookHandler, borrowHandler)
}

func do(t *testing.T, router http.Handler, method, path string, payload interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func TestEndToEndScenario(t *testing.T) {
	router := newTestRouter(t)

	// Create the book.
	rec, env := do(t, router, http.MethodPost, "/books", map[string]interface{}{
		"title": "T", "author": "A", "genre": "SCIENCE",
		"isbn": "9780553380163", "copies": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)
	assert.Equal(t, "Book created successfully", env.Message)

	var created books.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Available)

	// Borrow two copies.
	dueDate := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	rec, env = do(t, router, http.MethodPost, "/borrow", map[string]interface{}{
		"book": created.ID.String(), "quantity": 2, "dueDate": dueDate,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Book borrowed successfully", env.Message)

	// Book now has three copies and is still available.
	rec, env = do(t, router, http.MethodGet, "/books/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched books.Book
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, 3, fetched.Copies)
	assert.True(t, fetched.Available)

	// Borrowing more than the stock fails with 400.
	rec, env = do(t, router, http.MethodPost, "/borrow", map[string]interface{}{
		"book": created.ID.String(), "quantity": 10, "dueDate": dueDate,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Available: 3")
	assert.Contains(t, env.Message, "Requested: 10")

	// The summary reflects the one successful borrow.
	rec, env = do(t, router, http.MethodGet, "/borrow", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []borrow.SummaryRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "T", rows[0].Book.Title)
	assert.Equal(t, "9780553380163", rows[0].Book.ISBN)
	assert.Equal(t, 2, rows[0].TotalQuantity)

	// Delete the book, then reads 404.
	rec, env = do(t, router, http.MethodDelete, "/books/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book deleted successfully", env.Message)

	rec, env = do(t, router, http.MethodGet, "/books/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Book not found", env.Message)

	// The deleted book's borrows drop out of the summary.
	rec, env = do(t, router, http.MethodGet, "/borrow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Empty(t, rows)
}

func TestDuplicateISBNConflict(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]interface{}{
		"title": "First", "author": "A", "genre": "FICTION",
		"isbn": "978-0-7475-3269-9", "copies": 1,
	}
	rec, _ := do(t, router, http.MethodPost, "/books", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	payload["title"] = "Second"
	rec, env := do(t, router, http.MethodPost, "/books", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
}

func TestUpdateUnknownFieldRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, env := do(t, router, http.MethodPost, "/books", map[string]interface{}{
		"title": "T", "author": "A", "genre": "HISTORY",
		"isbn": "0-7475-3269-9", "copies": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created books.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = do(t, router, http.MethodPut, "/books/"+created.ID.String(), map[string]interface{}{
		"publisher": "Nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown fields: publisher", env.Message)
}

func TestRoutesMountedUnderAPIPrefix(t *testing.T) {
	router := newTestRouter(t)

	rec, env := do(t, router, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestUnmatchedRouteReturnsStructured404(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/nope", "/api/nope"} {
		rec, env := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.False(t, env.Success)
		assert.Equal(t, "Not Found", env.Message)

		var detail map[string]string
		require.NoError(t, json.Unmarshal(env.Error, &detail))
		assert.Equal(t, path, detail["path"])
	}
}

func TestMalformedIDReturns400(t *testing.T) {
	router := newTestRouter(t)

	rec, env := do(t, router, http.MethodGet, "/books/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid book ID format", env.Message)
}

func TestRootLiveness(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Library Management Server is running!", rec.Body.String())
}

func TestListQueryParameters(t *testing.T) {
	router := newTestRouter(t)

	for i, genre := range []string{"SCIENCE", "SCIENCE", "FANTASY"} {
		rec, _ := do(t, router, http.MethodPost, "/books", map[string]interface{}{
			"title": fmt.Sprintf("Book %d", i), "author": "A", "genre": genre,
			"isbn": fmt.Sprintf("97805533801%02d", i), "copies": i,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := do(t, router, http.MethodGet, "/books?filter=SCIENCE&sortBy=copies&sort=desc&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []books.Book
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Book 1", list[0].Title)

	rec, _ = do(t, router, http.MethodGet, "/books?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/books?sortBy=price", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
