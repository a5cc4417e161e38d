package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func writeStatus(w http.ResponseWriter, status int, _ any) { w.WriteHeader(status) }

func TestRateLimiterBurstThenReject(t *testing.T) {
	rl := NewRateLimiter(RateLimitOptions{PerMinute: 1, Burst: 2})
	defer rl.Close()

	h := rl.Handler(writeStatus)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Fatalf("missing Retry-After")
		}
	}
	if codes[0] != 204 || codes[1] != 204 || codes[2] != 429 {
		t.Fatalf("codes = %v, want [204 204 429]", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 204 {
		t.Fatalf("second client code = %d", rec.Code)
	}
}

func TestRateLimiterEvictsIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimitOptions{PerMinute: 10, IdleTTL: time.Hour})
	defer rl.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("a")
	now = now.Add(30 * time.Minute)
	rl.Allow("b")
	now = now.Add(45 * time.Minute)

	rl.evictIdle()
	if rl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", rl.Len())
	}
	rl.Close()
	rl.Close()
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:1234"
	if got := clientKey(r); got != "192.0.2.7" {
		t.Fatalf("clientKey = %q", got)
	}
	r.RemoteAddr = "192.0.2.8"
	if got := clientKey(r); got != "192.0.2.8" {
		t.Fatalf("clientKey no port = %q", got)
	}
}
