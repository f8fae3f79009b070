package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/photoshare/photoshare-api/internal/api/middleware"
	"github.com/photoshare/photoshare-api/internal/core/ports"
)

// AuthHandler exposes the session lifecycle: signup, login, refresh, logout.
type AuthHandler struct {
	sessions ports.SessionService
	users    ports.UserService
}

func NewAuthHandler(sessions ports.SessionService, users ports.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email"    validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=8,max=45,userpassword"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup creates a new account. 409 when the email or username is taken.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userInfoResponse{
		User:   fullUser(user),
		Detail: "user successfully created",
	})
}

// Login exchanges email/password for a token pair. The error for an unknown
// email and a wrong password is identical by design.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Refresh rotates a session: the bearer credential on this route is the
// refresh token, redeemable exactly once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, err := middleware.BearerToken(c)
	if err != nil {
		return err
	}

	pair, err := h.sessions.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Logout revokes the caller's current session and blacklists the presented
// access token until its natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	token, err := accessToken(c)
	if err != nil {
		return err
	}

	user, err := h.sessions.Logout(c.Request().Context(), token, caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userInfoResponse{
		User:   fullUser(user),
		Detail: "user logged out",
	})
}
