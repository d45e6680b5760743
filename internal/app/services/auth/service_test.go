package auth

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-labs/blog-server/internal/app/storage/memory"
	apperrors "github.com/inkwell-labs/blog-server/internal/errors"
)

var testSecret = []byte("test-secret")

func TestRegisterAndLogin(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == "" {
		t.Fatalf("expected user id")
	}

	session, err := svc.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Username != "alice" || session.Token == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	claims, err := ParseToken(testSecret, session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("token user id %q, want %q", claims.UserID, id)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, "alice", "different@example.com", "pw")
	se := apperrors.GetServiceError(err)
	if se == nil || se.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "shared@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, "bob", "shared@example.com", "pw")
	se := apperrors.GetServiceError(err)
	if se == nil || se.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)

	_, err := svc.Register(context.Background(), "alice", "", "pw")
	se := apperrors.GetServiceError(err)
	if se == nil || se.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "correct"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPw := svc.Login(ctx, "alice", "wrong")
	_, noUser := svc.Login(ctx, "nobody", "whatever")

	for _, err := range []error{wrongPw, noUser} {
		se := apperrors.GetServiceError(err)
		if se == nil || se.Code != apperrors.CodeInvalidCredentials {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("login errors should not leak user existence: %q vs %q", wrongPw, noUser)
	}
}

func TestWithTokenTTL(t *testing.T) {
	svc := New(memory.New(), testSecret, nil, WithTokenTTL(time.Hour))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := ParseToken(testSecret, session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != time.Hour {
		t.Fatalf("token ttl %v, want %v", ttl, time.Hour)
	}

	// Zero and negative overrides keep the default.
	for _, ttl := range []time.Duration{0, -time.Minute} {
		if got := New(memory.New(), testSecret, nil, WithTokenTTL(ttl)); got.tokenTTL != DefaultTokenTTL {
			t.Fatalf("ttl override %v applied: %v", ttl, got.tokenTTL)
		}
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := New(memory.New(), testSecret, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := ParseToken([]byte("other-secret"), session.Token); err == nil {
		t.Fatalf("expected token validation to fail with wrong secret")
	}
}
