package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, m *CORSMiddleware, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/posts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp := httptest.NewRecorder()
	m.Handler(next).ServeHTTP(resp, req)
	return resp
}

func TestCORSAllowAll(t *testing.T) {
	m := NewCORSMiddleware([]string{"*"})

	resp := corsRequest(t, m, http.MethodGet, "https://blog.example.com")
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://blog.example.com" {
		t.Fatalf("allow-origin %q", got)
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, got %d", resp.Code)
	}
}

func TestCORSOriginList(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://blog.example.com", ".trusted.example"})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://blog.example.com", true},
		{"https://app.trusted.example", true},
		{"https://evil.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		resp := corsRequest(t, m, http.MethodGet, tt.origin)
		got := resp.Header().Get("Access-Control-Allow-Origin")
		if tt.allowed && got != tt.origin {
			t.Fatalf("origin %q: allow-origin %q", tt.origin, got)
		}
		if !tt.allowed && got != "" {
			t.Fatalf("origin %q unexpectedly allowed", tt.origin)
		}
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	m := NewCORSMiddleware([]string{"*"})

	resp := corsRequest(t, m, http.MethodOptions, "https://blog.example.com")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected allow-methods header on preflight")
	}
}
