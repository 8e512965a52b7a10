package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendingapi/internal/identity"
	"lendingapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routing-test-secret"

func testHandler() http.Handler {
	return newHandler(appConfig{
		jwtSecret:      testSecret,
		rateLimitRPS:   1000,
		rateLimitBurst: 1000,
		corsOrigins:    []string{"http://localhost:3000"},
		seedDemo:       true,
	})
}

func do(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func withToken(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestRouting_Healthz(t *testing.T) {
	rec := do(testHandler(), testutil.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouting_BooksIsPublic(t *testing.T) {
	rec := do(testHandler(), testutil.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouting_BorrowRequiresAuth(t *testing.T) {
	rec := do(testHandler(), testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouting_InventoryRequiresAdmin(t *testing.T) {
	h := testHandler()

	memberToken := testutil.GenerateTestToken(testSecret, "member-1", identity.RoleUser)
	rec := do(h, withToken(testutil.NewRequest(http.MethodGet, "/inventory", nil), memberToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := testutil.GenerateTestToken(testSecret, "admin-1", identity.RoleAdmin)
	rec = do(h, withToken(testutil.NewRequest(http.MethodGet, "/inventory", nil), adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouting_BorrowReturnFlow(t *testing.T) {
	h := testHandler()
	token := testutil.GenerateTestToken(testSecret, "member-1", identity.RoleUser)

	rec := do(h, withToken(testutil.NewRequest(http.MethodPost, "/books/1/borrow", nil), token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, withToken(testutil.NewRequest(http.MethodGet, "/me/borrowed", nil), token))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Clean Code", body.Data[0]["title"])

	rec = do(h, withToken(testutil.NewRequest(http.MethodPost, "/books/1/return", nil), token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouting_LoginWithSeedAccount(t *testing.T) {
	h := testHandler()

	rec := do(h, testutil.NewRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "member@library.local",
		"password": "Member1234",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)
}
