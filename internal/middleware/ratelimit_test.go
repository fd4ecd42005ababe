package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitGeneralBucket(t *testing.T) {
	mw := NewRateLimitMiddleware(5, 1)
	handler := mw.Handler(okHandler())

	// The burst equals the per-minute budget, so the sixth request fails.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/api/inventory", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	req := httptest.NewRequest("GET", "/api/inventory", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitAuthBucketIsTighter(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	req1 := httptest.NewRequest("POST", "/api/auth/login", nil)
	req1.RemoteAddr = "10.0.0.2:1234"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest("POST", "/api/auth/login", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)

	// The general bucket still has room for the same client.
	req3 := httptest.NewRequest("GET", "/api/inventory", nil)
	req3.RemoteAddr = "10.0.0.2:1234"
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, req3)
	assert.Equal(t, http.StatusOK, rec3.Code)
}

func TestRateLimitPerClient(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	req1 := httptest.NewRequest("POST", "/api/auth/login", nil)
	req1.RemoteAddr = "10.0.0.3:1234"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	// A different client gets its own bucket.
	req2 := httptest.NewRequest("POST", "/api/auth/login", nil)
	req2.RemoteAddr = "10.0.0.4:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestRateLimitStreamExempt(t *testing.T) {
	mw := NewRateLimitMiddleware(1, 1)
	handler := mw.Handler(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/api/notifications/stream", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDefaults(t *testing.T) {
	mw := NewRateLimitMiddleware(0, 0)
	assert.Equal(t, 300, mw.generalRPM)
	assert.Equal(t, 20, mw.authRPM)
}

func TestExtractClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", extractClientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", extractClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.2, 203.0.113.7")
	assert.Equal(t, "198.51.100.2", extractClientIP(req))
}
