package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/service"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req, false)
	if err != nil {
		return toHTTP(l, "register_error", err)
	}

	return h.respond(c, http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return toHTTP(l, "login_error", err)
	}

	return h.respond(c, http.StatusOK, res)
}

// Refresh takes the token from the refreshToken cookie, falling back to the JSON body.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	token := ""
	if ck, err := c.Cookie(RefreshCookieName); err == nil {
		token = strings.TrimSpace(ck.Value)
	}
	if token == "" {
		var req transport.RefreshRequest
		if err := c.Bind(&req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}
	if token == "" {
		l.Warn("refresh_error", "status", 401, "reason", "no refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		c.SetCookie(DeleteCookie(RefreshCookieName, h.CookieSecure))
		return toHTTP(l, "refresh_error", err)
	}

	return h.respond(c, http.StatusOK, res)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(DeleteCookie(RefreshCookieName, h.CookieSecure))

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.LogoutResponse{Success: true})
}

func (h *AuthHTTP) respond(c echo.Context, status int, res *service.AuthResult) error {
	c.SetCookie(CreateCookie(RefreshCookieName, res.Tokens.RefreshToken, res.Tokens.RefreshExp, h.CookieSecure))

	return c.JSON(status, transport.AuthResponse{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		AccessExp:    transport.UnixOrZero(res.Tokens.AccessExp),
		RefreshExp:   transport.UnixOrZero(res.Tokens.RefreshExp),
	})
}

func toHTTP(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "email is already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		l.Warn(event, "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
