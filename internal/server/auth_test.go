package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func Test_Auth_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, nil)

	rec := postChat(t, s, `{"query": ""}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth disabled", rec.Code)
	}
}

func Test_Auth_MissingTokenRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{APIKey: "secret"})

	rec := postChat(t, s, `{"query": ""}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); !strings.Contains(got, "Bearer") {
		t.Errorf("WWW-Authenticate = %q", got)
	}
}

func Test_Auth_WrongTokenRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{APIKey: "secret"})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func Test_Auth_CorrectTokenAccepted(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{APIKey: "secret"})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": ""}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func Test_Auth_HealthNotProtected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRunner{out: okState()}, nil, &Config{APIKey: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 without token", rec.Code)
	}
}

func Test_BearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"absent", "", ""},
		{"well formed", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
		{"padded", "Bearer  abc123 ", "abc123"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(req); got != tt.want {
			t.Errorf("%s: bearerToken = %q, want %q", tt.name, got, tt.want)
		}
	}
}
