package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// UserHandler serves the self-service user routes. Each route targets an
// explicit user id; non-admin callers may only touch their own record.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// selfOrAdmin rejects callers touching another user's record unless they hold
// the admin role.
func selfOrAdmin(caller domain.Caller, targetID string) error {
	if caller.ID == targetID {
		return nil
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleUser:
		return domain.ErrForbidden
	}
	return domain.ErrForbidden
}

// UpdateProfile handles PATCH /users/:id/profile.
//
// @Summary      Update a user's profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := selfOrAdmin(caller, c.Param("id")); err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), c.Param("id"), req.Name, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdatePassword handles PATCH /users/:id/password.
//
// @Summary      Set a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "User id"
// @Param        body  body      updatePasswordRequest  true  "New password"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/password [patch]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := selfOrAdmin(caller, c.Param("id")); err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdatePassword(c.Request().Context(), c.Param("id"), req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
