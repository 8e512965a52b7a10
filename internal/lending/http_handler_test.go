package lending

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lendingapi/internal/catalog"
	"lendingapi/internal/httpx"
	"lendingapi/internal/ledger"
	"lendingapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(books ...catalog.Book) (*http.ServeMux, *Service) {
	service := NewService(catalog.NewStore(books...), ledger.NewStore(), testutil.FixedClock(2026, time.March, 10))
	handler := NewHTTPHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /books", handler.ListAvailable)
	mux.HandleFunc("GET /inventory", handler.ListInventory)
	mux.HandleFunc("POST /books", handler.AddBook)
	mux.HandleFunc("PATCH /books/{id}/stock", handler.UpdateStock)
	mux.HandleFunc("POST /books/{id}/borrow", handler.Borrow)
	mux.HandleFunc("POST /books/{id}/return", handler.Return)
	mux.HandleFunc("GET /me/borrowed", handler.ListBorrowed)
	return mux, service
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID, "USER"))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHTTPHandler_ListAvailable(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 1},
		catalog.Book{ID: "2", Title: "Exhausted", Author: "Nobody", Copies: 0},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]any)
	require.Len(t, data, 1, "exhausted titles are filtered out")
}

func TestHTTPHandler_Borrow(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 1},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil), "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Clean Code", data["title"])
	assert.Contains(t, data["due_date"], "2026-03-24")
}

func TestHTTPHandler_Borrow_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		prepare    func(mux *http.ServeMux)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown book is 404",
			path:       "/books/missing/borrow",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name: "out of stock is 409",
			path: "/books/1/borrow",
			prepare: func(mux *http.ServeMux) {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil), "other"))
				require.Equal(t, http.StatusOK, rec.Code)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "OUT_OF_STOCK",
		},
		{
			name: "duplicate borrow is 409",
			path: "/books/2/borrow",
			prepare: func(mux *http.ServeMux) {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/2/borrow", nil), "u1"))
				require.Equal(t, http.StatusOK, rec.Code)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_BORROW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newTestRouter(
				catalog.Book{ID: "1", Title: "One Copy", Author: "A", Copies: 1},
				catalog.Book{ID: "2", Title: "Two Copies", Author: "B", Copies: 2},
			)
			if tt.prepare != nil {
				tt.prepare(mux)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, tt.path, nil), "u1"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			errBody := body["error"].(map[string]any)
			assert.Equal(t, tt.wantCode, errBody["code"])
		})
	}
}

func TestHTTPHandler_Borrow_RequiresUser(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 1},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPHandler_ReturnFlow(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 1},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/return", nil), "u1"))
	assert.Equal(t, http.StatusConflict, rec.Code, "return without an active borrow")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/return", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Clean Code", data["title"])
}

func TestHTTPHandler_AddBook(t *testing.T) {
	mux, _ := newTestRouter()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
		"title":  "X",
		"author": "Y",
		"copies": 2,
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same title/author in a different case merges instead of creating
	// a second entry.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
		"title":  "x",
		"author": "y",
		"copies": 3,
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["merged"])
	book := data["book"].(map[string]any)
	assert.Equal(t, float64(5), book["copies"])
}

func TestHTTPHandler_AddBook_Validation(t *testing.T) {
	mux, _ := newTestRouter()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/books", map[string]any{
		"author": "Y",
		"copies": 2,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
}

func TestHTTPHandler_UpdateStock(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 3},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPatch, "/books/1/stock", map[string]any{"copies": 9}))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(9), data["copies"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPatch, "/books/1/stock", map[string]any{"copies": -1}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeEnvelope(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "INVALID_STOCK", errBody["code"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, testutil.NewRequest(http.MethodPatch, "/books/missing/stock", map[string]any{"copies": 1}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPHandler_ListBorrowed(t *testing.T) {
	mux, _ := newTestRouter(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 1},
	)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(testutil.NewRequest(http.MethodGet, "/me/borrowed", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "Clean Code", entry["title"])
	assert.Contains(t, entry["due_date"], "2026-03-24")
}
