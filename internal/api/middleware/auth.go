package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/photoshare/photoshare-api/internal/core/ports"
)

// Context keys set by Authenticate for downstream handlers.
const (
	// PrincipalKey holds the resolved *domain.User.
	PrincipalKey = "principal"
	// AccessTokenKey holds the raw bearer token, needed by logout to
	// blacklist the exact string that was presented.
	AccessTokenKey = "access_token"
)

// Authenticate resolves the bearer access token into the caller's principal
// and injects it into the request context. Every failure funnels through the
// central error handler, so a revoked, expired or banned caller gets the
// same envelope as any other auth error.
func Authenticate(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			principal, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, principal)
			c.Set(AccessTokenKey, token)
			return next(c)
		}
	}
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// BearerToken exposes the header parsing for routes that authenticate with a
// non-access credential, such as refresh.
func BearerToken(c echo.Context) (string, error) {
	return bearerToken(c)
}
