// internal/httpx/respond_test.go
package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstack/internal/apperror"
	"bookstack/internal/httpx"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.JSON(rec, http.StatusCreated, "Book created successfully", map[string]string{"title": "T"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Book created successfully", body["message"])
	assert.NotNil(t, body["data"])
}

func TestJSONEnvelopeNullData(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.JSON(rec, http.StatusOK, "Book deleted successfully", nil)

	body := decodeBody(t, rec)
	_, present := body["data"]
	assert.True(t, present, "data field must be present even when null")
	assert.Nil(t, body["data"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.New(apperror.KindValidation, "Validation failed"), http.StatusBadRequest},
		{apperror.New(apperror.KindNotFound, "Book not found"), http.StatusNotFound},
		{apperror.New(apperror.KindDuplicateKey, "duplicate"), http.StatusConflict},
		{apperror.InsufficientStock(1, 5), http.StatusBadRequest},
		{errors.New("some unexpected thing"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		httpx.Error(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.NotEmpty(t, body["message"])
	}
}

func TestErrorPayloadShape(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.Error(rec, apperror.InsufficientStock(2, 7))

	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "InsufficientStock", errObj["name"])

	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), details["available"])
	assert.Equal(t, float64(7), details["requested"])
}

func TestInternalErrorHiddenInProduction(t *testing.T) {
	httpx.SetProduction(true)
	defer httpx.SetProduction(false)

	rec := httptest.NewRecorder()
	httpx.Error(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Something went wrong!", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestNotFoundBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil)
	rec := httptest.NewRecorder()
	httpx.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["message"])

	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/api/nothing-here", errObj["path"])
	assert.Equal(t, "API endpoint not found", errObj["message"])
}

func TestRecoverMiddleware(t *testing.T) {
	h := httpx.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRateLimitMiddleware(t *testing.T) {
	h := httpx.RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
