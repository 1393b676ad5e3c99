package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookbuddy/api/config"
	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/jsonlog"
	"github.com/bookbuddy/api/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService implements the methods a test needs; anything else panics
// through the embedded nil interface.
type stubService struct {
	service.Service
	getBook     func(bookID int64) (*data.Book, error)
	createToken func(email, password string) (*data.Token, error)
}

func (s *stubService) GetBook(bookID int64) (*data.Book, error) {
	return s.getBook(bookID)
}

func (s *stubService) CreateAuthenticationToken(email, password string) (*data.Token, error) {
	return s.createToken(email, password)
}

func newTestHandler(svc service.Service) *Handler {
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	cache := ttlcache.New[string, int64]()
	return New(config.Config{}, logger, cache, svc)
}

func withParams(r *http.Request, params httprouter.Params) *http.Request {
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, params)
	return r.WithContext(ctx)
}

func TestHealthcheckHandler(t *testing.T) {
	h := newTestHandler(nil)
	r := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
	w := httptest.NewRecorder()

	h.healthcheckHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "available", body["status"])
}

func TestShowBookHandler(t *testing.T) {
	t.Run("returns the book", func(t *testing.T) {
		svc := &stubService{getBook: func(bookID int64) (*data.Book, error) {
			return &data.Book{ID: bookID, Title: "Learning Go", Author: "Jon Bodner"}, nil
		}}
		h := newTestHandler(svc)
		r := httptest.NewRequest(http.MethodGet, "/v1/books/7", nil)
		r = withParams(r, httprouter.Params{{Key: "bookId", Value: "7"}})
		w := httptest.NewRecorder()

		h.showBookHandler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Learning Go")
	})

	t.Run("maps a missing record to 404", func(t *testing.T) {
		svc := &stubService{getBook: func(bookID int64) (*data.Book, error) {
			return nil, service.ErrRecordNotFound
		}}
		h := newTestHandler(svc)
		r := httptest.NewRequest(http.MethodGet, "/v1/books/7", nil)
		r = withParams(r, httprouter.Params{{Key: "bookId", Value: "7"}})
		w := httptest.NewRecorder()

		h.showBookHandler(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		h := newTestHandler(nil)
		r := httptest.NewRequest(http.MethodGet, "/v1/books/abc", nil)
		r = withParams(r, httprouter.Params{{Key: "bookId", Value: "abc"}})
		w := httptest.NewRecorder()

		h.showBookHandler(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateAuthenticationTokenHandler(t *testing.T) {
	t.Run("maps invalid credentials to 401", func(t *testing.T) {
		svc := &stubService{createToken: func(email, password string) (*data.Token, error) {
			return nil, service.ErrInvalidCredentials
		}}
		h := newTestHandler(svc)
		body := `{"email": "reader@example.com", "password": "wrong-password"}`
		r := httptest.NewRequest(http.MethodPost, "/v1/tokens/authentication", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.createAuthenticationTokenHandler(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		h := newTestHandler(nil)
		r := httptest.NewRequest(http.MethodPost, "/v1/tokens/authentication", strings.NewReader(`{"email": `))
		w := httptest.NewRecorder()

		h.createAuthenticationTokenHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		h := newTestHandler(nil)
		body := `{"email": "reader@example.com", "password": "pa55word", "admin": true}`
		r := httptest.NewRequest(http.MethodPost, "/v1/tokens/authentication", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.createAuthenticationTokenHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Run("no header resolves to the anonymous user", func(t *testing.T) {
		h := newTestHandler(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := h.contextGetUser(r)
			assert.True(t, user.IsAnonymous())
			w.WriteHeader(http.StatusOK)
		})
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		w := httptest.NewRecorder()

		h.authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		h := newTestHandler(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not be called")
		})
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer")
		w := httptest.NewRecorder()

		h.authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short token is rejected before lookup", func(t *testing.T) {
		h := newTestHandler(nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not be called")
		})
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer tooshort")
		w := httptest.NewRecorder()

		h.authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireActivatedUser(t *testing.T) {
	h := newTestHandler(nil)
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("anonymous user gets 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/users/library", nil)
		r = h.contextSetUser(r, data.AnonymousUser)
		w := httptest.NewRecorder()

		h.requireActivatedUser(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unactivated user gets 403", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/users/library", nil)
		r = h.contextSetUser(r, &data.User{ID: 1, Activated: false})
		w := httptest.NewRecorder()

		h.requireActivatedUser(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("activated user passes through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/users/library", nil)
		r = h.contextSetUser(r, &data.User{ID: 1, Activated: true})
		w := httptest.NewRecorder()

		h.requireActivatedUser(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
