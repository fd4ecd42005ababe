package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-erp/internal/model"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
	seen   string
}

func (v *stubValidator) ValidateToken(tokenString string, _ string) (*model.AuthClaims, error) {
	v.seen = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{UserID: "u1"}})

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{err: assert.AnError})

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthPassesClaims(t *testing.T) {
	validator := &stubValidator{claims: &model.AuthClaims{UserID: "u1", Role: "admin"}}
	mw := NewAuthMiddleware(validator)

	var got *model.AuthClaims
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		got = claims
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", validator.seen)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

func TestRequireAuthQueryTokenFallback(t *testing.T) {
	validator := &stubValidator{claims: &model.AuthClaims{UserID: "u1"}}
	mw := NewAuthMiddleware(validator)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/notifications/stream?token=ws-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ws-token", validator.seen)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{UserID: "u1"}})

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
