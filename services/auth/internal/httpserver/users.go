package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/transport"
)

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_me")

	id, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	user, err := h.Svc.Me(ctx, id)
	if err != nil {
		return toHTTP(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return toHTTP(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_get")

	user, err := h.Svc.GetUserByParam(ctx, c.Param("id"))
	if err != nil {
		return toHTTP(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateRoles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_update_roles")

	user, err := h.Svc.GetUserByParam(ctx, c.Param("id"))
	if err != nil {
		return toHTTP(l, "update_roles_error", err)
	}

	var req transport.UpdateRolesRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_roles_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.Svc.UpdateRoles(ctx, user.ID, req)
	if err != nil {
		return toHTTP(l, "update_roles_error", err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_delete")

	user, err := h.Svc.GetUserByParam(ctx, c.Param("id"))
	if err != nil {
		return toHTTP(l, "delete_user_error", err)
	}

	if err := h.Svc.DeleteUser(ctx, user.ID); err != nil {
		return toHTTP(l, "delete_user_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
