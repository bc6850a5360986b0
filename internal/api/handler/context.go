package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Auth middleware and performs
// a fast-fail check before any service call:
//   - user_id must be non-empty (presence proves the middleware ran).
//   - role must parse to a known value; an unknown role means the token was
//     minted by a different version of the service — reject with 401.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	rawRole, _ := c.Get("role").(string)
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries unknown role")
	}

	return domain.Caller{ID: userID, Role: role}, nil
}
