package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

type stubSessions struct {
	resolveUser *domain.User
	resolveErr  error
	gotToken    string
}

func (s *stubSessions) Login(context.Context, string, string) (*domain.TokenPair, error) {
	return nil, nil
}
func (s *stubSessions) Refresh(context.Context, string) (*domain.TokenPair, error) {
	return nil, nil
}
func (s *stubSessions) Logout(context.Context, string, *domain.User) (*domain.User, error) {
	return nil, nil
}
func (s *stubSessions) Resolve(_ context.Context, token string) (*domain.User, error) {
	s.gotToken = token
	return s.resolveUser, s.resolveErr
}
func (s *stubSessions) Sweep(context.Context) error { return nil }

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	alice := &domain.User{ID: 1, Email: "alice@example.com", Role: domain.RoleStandard, IsActive: true}
	sessions := &stubSessions{resolveUser: alice}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(sessions)(func(c echo.Context) error {
		called = true
		if got, _ := c.Get(PrincipalKey).(*domain.User); got == nil || got.ID != alice.ID {
			t.Fatalf("principal not injected: %+v", got)
		}
		if got, _ := c.Get(AccessTokenKey).(string); got != "tok-123" {
			t.Fatalf("raw token not injected: %q", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if sessions.gotToken != "tok-123" {
		t.Fatalf("resolve saw token %q", sessions.gotToken)
	}
}

func TestAuthenticate_ResolveFailurePropagates(t *testing.T) {
	e := echo.New()
	sessions := &stubSessions{resolveErr: domain.ErrLogInAgain}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrLogInAgain {
		t.Fatalf("expected ErrLogInAgain, got %v", err)
	}
}

func TestAuthenticate_BadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong prefix", "Token abc"},
		{"no credential", "Bearer "},
		{"prefix only", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Authenticate(&stubSessions{})(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
		})
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tok-123")
	c := e.NewContext(req, httptest.NewRecorder())

	token, err := BearerToken(c)
	if err != nil {
		t.Fatalf("BearerToken returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %q", token)
	}
}
