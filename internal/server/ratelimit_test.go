package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filterchat/filterchat-go/internal/logging"
)

func Test_RateLimit_BurstThenReject(t *testing.T) {
	t.Parallel()

	// 1 rps with a burst of 2: the third immediate request must be rejected.
	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{RateLimit: 1, RateBurst: 2})

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests rejected: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func Test_RateLimit_PerIPIsolation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{RateLimit: 1, RateBurst: 1})

	first := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
	first.RemoteAddr = "10.0.0.1:1234"
	rec1 := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec1, first)

	second := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
	second.RemoteAddr = "10.0.0.2:1234"
	rec2 := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec2, second)

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Errorf("distinct IPs should not share a bucket: %d, %d", rec1.Code, rec2.Code)
	}
}

func Test_RateLimit_RetryAfterHeader(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{RateLimit: 1, RateBurst: 1})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		if i == 1 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("second request = %d, want 429", rec.Code)
			}
			if rec.Header().Get("Retry-After") == "" {
				t.Error("429 response missing Retry-After")
			}
		}
	}
}

func Test_RateLimit_Eviction(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(1, 1, logging.New())
	defer stop()

	rl.getLimiter("10.0.0.1")
	rl.mu.Lock()
	rl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	rl.mu.Unlock()

	rl.evict()

	rl.mu.Lock()
	_, exists := rl.limiters["10.0.0.1"]
	rl.mu.Unlock()
	if exists {
		t.Error("stale entry should have been evicted")
	}
}

func Test_ClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want string
	}{
		{"10.0.0.1:1234", "10.0.0.1"},
		{"[::1]:8080", "[::1]"},
		{"noport", "noport"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.addr
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
