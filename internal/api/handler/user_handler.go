package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photoshare/photoshare-api/internal/core/domain"
	"github.com/photoshare/photoshare-api/internal/core/ports"
)

// UserHandler exposes account management. Every route sits behind the
// Authenticate middleware; responses are shaped per caller role.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email"    validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=8,max=45,userpassword"`
}

type activeStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin moderator standard"`
}

// List returns all users, each projected through the caller's view.
func (h *UserHandler) List(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	shaped := make([]any, 0, len(users))
	for _, u := range users {
		shaped = append(shaped, shapeUser(caller, u))
	}
	return c.JSON(http.StatusOK, shaped)
}

// Get returns one user projected through the caller's view.
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shapeUser(caller, user))
}

// UpdateSelf changes the caller's own profile.
func (h *UserHandler) UpdateSelf(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdateSelf(c.Request().Context(), caller, ports.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userInfoResponse{User: fullUser(user), Detail: "user updated"})
}

// Delete removes an account: the owner or an admin.
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.DeleteUser(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userInfoResponse{User: fullUser(user), Detail: "user deleted"})
}

// SetActiveStatus bans or unbans an account.
func (h *UserHandler) SetActiveStatus(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req activeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.SetActiveStatus(c.Request().Context(), caller, id, *req.IsActive)
	if err != nil {
		return err
	}

	detail := "user status set to active"
	if !user.IsActive {
		detail = "user status set to banned"
	}
	return c.JSON(http.StatusOK, userInfoResponse{User: fullUser(user), Detail: detail})
}

// SetRole changes an account's role, admin only.
func (h *UserHandler) SetRole(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.SetRole(c.Request().Context(), caller, id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userInfoResponse{
		User:   fullUser(user),
		Detail: "user role set to " + req.Role,
	})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
