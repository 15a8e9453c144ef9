package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-store-service/internal/adapter/db/jsonfile"
	"user-store-service/internal/adapter/gin/handler"
	"user-store-service/internal/adapter/repository/memory"
	"user-store-service/internal/usecase/user"
	"user-store-service/pkg/security"
)

const testToken = "test-token"

type testServer struct {
	router   *gin.Engine
	dataFile string
}

func newTestServer(t *testing.T, dataFile string) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)

	store, err := memory.NewUserStore(context.Background(), jsonfile.NewUserFile(dataFile, log), log)
	require.NoError(t, err)

	h := handler.NewUserHandler(user.New(store, log), log)
	r := SetupRouter(h, security.NewBearerGuard(testToken), nil, log)
	return &testServer{router: r, dataFile: dataFile}
}

func (s *testServer) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authorized {
		req.Header.Set("Authorization", security.BearerScheme+testToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	// Create on an empty store
	w := s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","role":"viewer"}`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	// Read it back
	w = s.do(http.MethodGet, "/users?id=1", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","role":"viewer"}`, w.Body.String())

	// Partial update
	w = s.do(http.MethodPut, "/users?id=1", `{"role":"admin"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","role":"admin"}`, w.Body.String())

	// Delete
	w = s.do(http.MethodDelete, "/users?id=1", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted","user":{"id":1,"name":"Ana","email":"a@x.com","role":"admin"}}`, w.Body.String())

	w = s.do(http.MethodGet, "/users?id=1", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())

	w = s.do(http.MethodGet, "/users", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreateUser_MissingEmail(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	w := s.do(http.MethodPost, "/users", `{"name":"X"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Name and email are required"}`, w.Body.String())
}

func TestCreateUser_MalformedBody(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	w := s.do(http.MethodPost, "/users", `not json`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Name and email are required"}`, w.Body.String())
}

func TestCreateUser_IDsFollowMax(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	for i := 1; i <= 3; i++ {
		w := s.do(http.MethodPost, "/users", fmt.Sprintf(`{"name":"u%d","email":"u%d@x.com"}`, i, i), true)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/users?id=2", "", true).Code)

	w := s.do(http.MethodPost, "/users", `{"name":"u4","email":"u4@x.com"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(4), decode[handler.UserResponse](t, w).ID)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/users?id=4", "", true).Code)
	w = s.do(http.MethodPost, "/users", `{"name":"u5","email":"u5@x.com"}`, true)
	assert.Equal(t, int64(4), decode[handler.UserResponse](t, w).ID)
}

func TestCreateUser_WrongTypedRoleKeepsNameAndEmail(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	w := s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com","role":5}`, true)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","role":"viewer"}`, w.Body.String())
}

func TestUpdateUser_WrongTypedRoleKeepsName(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com"}`, true).Code)

	w := s.do(http.MethodPut, "/users?id=1", `{"name":"Bea","role":7}`, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Bea","email":"a@x.com","role":"viewer"}`, w.Body.String())
}

func TestUpdateUser_EmptyBodyChangesNothing(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com","role":"editor"}`, true).Code)

	w := s.do(http.MethodPut, "/users?id=1", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","role":"editor"}`, w.Body.String())
}

func TestIDParameter(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com"}`, true).Code)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantError  string
	}{
		{"put without id", http.MethodPut, "/users", http.StatusBadRequest, "User ID is required"},
		{"put with empty id", http.MethodPut, "/users?id=", http.StatusBadRequest, "User ID is required"},
		{"put unknown id", http.MethodPut, "/users?id=99", http.StatusNotFound, "User not found"},
		{"put non-numeric id", http.MethodPut, "/users?id=abc", http.StatusNotFound, "User not found"},
		{"delete without id", http.MethodDelete, "/users", http.StatusBadRequest, "User ID is required"},
		{"delete unknown id", http.MethodDelete, "/users?id=99", http.StatusNotFound, "User not found"},
		{"get non-numeric id", http.MethodGet, "/users?id=1x", http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.target, `{"role":"admin"}`, true)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decode[handler.ErrorResponse](t, w).Error)
		})
	}
}

func TestUnauthorized(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	tests := []struct {
		name   string
		method string
		target string
		header string
	}{
		{"list without header", http.MethodGet, "/users", ""},
		{"wrong token", http.MethodGet, "/users", "Bearer nope"},
		{"wrong scheme", http.MethodGet, "/users", "Basic " + testToken},
		{"token without scheme", http.MethodGet, "/users", testToken},
		{"create", http.MethodPost, "/users", ""},
		{"unknown path", http.MethodGet, "/accounts", ""},
		{"unsupported method", http.MethodPatch, "/users", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(`{"name":"a","email":"b"}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	// Nothing was created by the rejected POST
	w := s.do(http.MethodGet, "/users", "", true)
	assert.Equal(t, "[]", w.Body.String())
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	for _, target := range []string{"/users", "/anything"} {
		w := s.do(http.MethodOptions, target, "", false)

		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Empty(t, w.Body.String(), target)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	w := s.do(http.MethodGet, "/accounts", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = s.do(http.MethodGet, "/users/", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/users", "", true)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	w := s.do(http.MethodGet, "/users", "", true)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPersistenceSurvivesRestart(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "users.json")
	s := newTestServer(t, dataFile)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Ana","email":"a@x.com"}`, true).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Bo","email":"b@x.com","role":"admin"}`, true).Code)
	before := s.do(http.MethodGet, "/users", "", true).Body.String()

	raw, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.JSONEq(t, before, string(raw))

	restarted := newTestServer(t, dataFile)
	after := restarted.do(http.MethodGet, "/users", "", true).Body.String()
	assert.Equal(t, before, after)
}

func TestConcurrentCreates(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "users.json"))

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := s.do(http.MethodPost, "/users", fmt.Sprintf(`{"name":"u%d","email":"u%d@x.com"}`, i, i), true)
			assert.Equal(t, http.StatusCreated, w.Code)
		}(i)
	}
	wg.Wait()

	users := decode[[]handler.UserResponse](t, s.do(http.MethodGet, "/users", "", true))
	require.Len(t, users, n)
	seen := make(map[int64]bool, n)
	for _, u := range users {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}

	restarted := newTestServer(t, s.dataFile)
	reloaded := decode[[]handler.UserResponse](t, restarted.do(http.MethodGet, "/users", "", true))
	assert.Equal(t, users, reloaded)
}
