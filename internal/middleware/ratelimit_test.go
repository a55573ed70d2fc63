package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_EnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/github/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 on request over limit, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After 60, got %q", last.Header().Get("Retry-After"))
	}
}

func TestRateLimiter_SeparatePerAddress(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodPost, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, first)

	second := httptest.NewRequest(http.MethodPost, "/", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, second)

	if rr1.Code != http.StatusOK || rr2.Code != http.StatusOK {
		t.Errorf("Expected both addresses to pass, got %d and %d", rr1.Code, rr2.Code)
	}
}

func TestNewRateLimiter_ZeroLimitFallsBack(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	if rl.limit != 10 {
		t.Errorf("Expected fallback limit 10, got %d", rl.limit)
	}
}
