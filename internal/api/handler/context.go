package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/photoshare/photoshare-api/internal/api/middleware"
	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// principal extracts the caller injected by the Authenticate middleware and
// fails fast with 401 when the route was wired without it.
func principal(c echo.Context) (*domain.User, error) {
	caller, _ := c.Get(middleware.PrincipalKey).(*domain.User)
	if caller == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication principal")
	}
	return caller, nil
}

// accessToken returns the raw bearer token the middleware saved alongside
// the principal.
func accessToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.AccessTokenKey).(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication principal")
	}
	return token, nil
}
