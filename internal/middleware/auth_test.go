package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkwell-labs/blog-server/internal/app/services/auth"
	"github.com/inkwell-labs/blog-server/internal/app/storage/memory"
)

func issueToken(t *testing.T, secret []byte) string {
	t.Helper()
	svc := auth.New(memory.New(), secret, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return session.Token
}

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestOptionalAuthPassesWithoutToken(t *testing.T) {
	m := NewAuthMiddleware([]byte("s"), false, nil)
	handler := m.Handler()(echoUserID())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without token, got %d", resp.Code)
	}
	if resp.Body.String() != "" {
		t.Fatalf("expected no user id, got %q", resp.Body.String())
	}
}

func TestOptionalAuthAttachesClaims(t *testing.T) {
	secret := []byte("s")
	token := issueToken(t, secret)

	m := NewAuthMiddleware(secret, false, nil)
	handler := m.Handler()(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() == "" {
		t.Fatalf("expected user id attached to context")
	}
}

func TestRequiredAuthRejects(t *testing.T) {
	m := NewAuthMiddleware([]byte("s"), true, nil)
	handler := m.Handler()(echoUserID())

	cases := map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"badToken":  "Bearer not-a-jwt",
		"wrongKey":  "Bearer " + issueToken(t, []byte("other")),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.Code)
		}
	}
}
