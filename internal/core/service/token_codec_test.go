package service

import (
	"testing"
	"time"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenCodec_AccessRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, expiresAt, err := codec.IssueAccess("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	if time.Until(expiresAt) > 15*time.Minute {
		t.Fatalf("access expiry too far out: %v", expiresAt)
	}

	claims, err := codec.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.SessionID != "session-1" {
		t.Fatalf("unexpected session id: %s", claims.SessionID)
	}
	if claims.Scope != domain.ScopeAccess {
		t.Fatalf("unexpected scope: %s", claims.Scope)
	}
}

func TestTokenCodec_RefreshRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, _, err := codec.IssueRefresh("bob@example.com", "session-2")
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	claims, err := codec.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh returned error: %v", err)
	}
	if claims.Subject != "bob@example.com" || claims.SessionID != "session-2" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenCodec_WrongScope(t *testing.T) {
	codec := newTestCodec()

	access, _, err := codec.IssueAccess("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	refresh, _, err := codec.IssueRefresh("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	if _, err := codec.VerifyRefresh(access); err != domain.ErrInvalidScope {
		t.Fatalf("expected ErrInvalidScope for access token on refresh path, got %v", err)
	}
	if _, err := codec.VerifyAccess(refresh); err != domain.ErrInvalidScope {
		t.Fatalf("expected ErrInvalidScope for refresh token on access path, got %v", err)
	}
}

func TestTokenCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec()

	token, _, err := codec.IssueAccess("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := codec.VerifyAccess(tampered); err != domain.ErrCouldNotValidate {
		t.Fatalf("expected ErrCouldNotValidate for tampered token, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	other := NewTokenCodec("other-secret", 15*time.Minute, time.Hour)
	token, _, err := other.IssueAccess("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	codec := newTestCodec()
	if _, err := codec.VerifyAccess(token); err != domain.ErrCouldNotValidate {
		t.Fatalf("expected ErrCouldNotValidate for foreign signature, got %v", err)
	}
}

func TestTokenCodec_ExpiredToken(t *testing.T) {
	codec := newTestCodec()

	// Issue in the past, verify at the real present.
	codec.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := codec.IssueAccess("alice@example.com", "session-1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	codec.now = time.Now
	if _, err := codec.VerifyAccess(token); err != domain.ErrCouldNotValidate {
		t.Fatalf("expected ErrCouldNotValidate for expired token, got %v", err)
	}
}

func TestTokenCodec_GarbageToken(t *testing.T) {
	codec := newTestCodec()
	if _, err := codec.VerifyAccess("not-a-jwt"); err != domain.ErrCouldNotValidate {
		t.Fatalf("expected ErrCouldNotValidate for garbage, got %v", err)
	}
}
