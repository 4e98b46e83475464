package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	user *User
	err  error
}

func (f *fakeVerifier) VerifyToken(tokenString string) (*User, error) {
	return f.user, f.err
}

func TestMiddlewareMissingHeader(t *testing.T) {
	mw := Middleware(&fakeVerifier{user: &User{ID: "u1"}})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a bearer token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	mw := Middleware(&fakeVerifier{err: errors.New("expired")})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewarePutsUserInContext(t *testing.T) {
	want := &User{ID: "user_123", Email: "founder@example.com"}
	mw := Middleware(&fakeVerifier{user: want})

	var got *User
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUserFromRequest(r)
		require.True(t, ok)
		got = u
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, got)
}
