package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/callarchive/callarchive/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminGuardDisabled(t *testing.T) {
	h := newAdminGuard(&config.Config{}).wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("no credentials configured = %d, want 200", rec.Code)
	}
}

func TestAdminGuardToken(t *testing.T) {
	h := newAdminGuard(&config.Config{AdminToken: "tok"}).wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	req.Header.Set("X-Admin-Token", "tok")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rec.Code)
	}
}

func TestAdminGuardBasic(t *testing.T) {
	h := newAdminGuard(&config.Config{AdminUser: "admin", AdminPass: "pw"}).wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	req.SetBasicAuth("admin", "pw")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid basic auth = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
	req.SetBasicAuth("admin", "nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("401 response missing WWW-Authenticate header")
	}
}

func testLimiter(t *testing.T, perIP int, window time.Duration, enabled bool) *rateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newRateLimiter(ctx, &config.Config{
		RateLimitEnabled: enabled,
		RateLimitPerIP:   perIP,
		RateLimitWindow:  window,
	})
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	limiter := testLimiter(t, 3, time.Minute, true)

	for i := 0; i < 3; i++ {
		if !limiter.allow("10.0.0.1") {
			t.Fatalf("request %d denied under limit", i+1)
		}
	}
	if limiter.allow("10.0.0.1") {
		t.Error("request over limit allowed")
	}
	// A different IP has its own window.
	if !limiter.allow("10.0.0.2") {
		t.Error("unrelated IP denied")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	limiter := testLimiter(t, 1, 10*time.Millisecond, true)

	if !limiter.allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if limiter.allow("10.0.0.1") {
		t.Fatal("second request in window allowed")
	}
	time.Sleep(15 * time.Millisecond)
	if !limiter.allow("10.0.0.1") {
		t.Error("request after window expiry denied")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := testLimiter(t, 1, time.Minute, false)
	for i := 0; i < 10; i++ {
		if !limiter.allow("10.0.0.1") {
			t.Fatal("disabled limiter denied a request")
		}
	}
}

func TestRateLimitWrapResponds429(t *testing.T) {
	limiter := testLimiter(t, 2, time.Minute, true)
	h := limiter.wrap(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
}

func TestClientIPUsesForwardedFor(t *testing.T) {
	limiter := testLimiter(t, 1, time.Minute, true)
	h := limiter.wrap(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/rescan", nil)
		req.RemoteAddr = fmt.Sprintf("10.1.1.%d:999", i)
		req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("forwarded client not limited: %d", rec.Code)
		}
	}
}

func TestClientIPStripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:4711"
	if got := clientIP(req); got != "192.0.2.9" {
		t.Errorf("clientIP = %q, want 192.0.2.9", got)
	}
}

func TestCORSPermissive(t *testing.T) {
	h := newCORSPolicy(&config.Config{CORSPermissive: true}).wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/calls", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}

	// Preflight short-circuits.
	req = httptest.NewRequest(http.MethodOptions, "/calls", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", rec.Code)
	}
}

func TestCORSRestricted(t *testing.T) {
	h := newCORSPolicy(&config.Config{
		CORSOrigins: []string{"https://viewer.example", "*.archive.example"},
	}).wrap(okHandler())

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://viewer.example", true},
		{"https://app.archive.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/calls", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tt.allowed && got != tt.origin {
			t.Errorf("origin %s: allow-origin = %q, want echoed", tt.origin, got)
		}
		if !tt.allowed && got != "" {
			t.Errorf("origin %s: allow-origin = %q, want empty", tt.origin, got)
		}
	}
}
