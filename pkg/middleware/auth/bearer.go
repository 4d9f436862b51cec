package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRoles  = "roles"
)

var ErrUnauthorized = errors.New("unauthorized")

// RequireAuth accepts only access tokens from the Authorization header.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_auth")

			raw, ok := BearerToken(c.Request())
			if !ok {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil {
				l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
			}

			id, err := tokens.SubjectID(claims.Subject)
			if err != nil {
				l.Warn("auth_failed", "status", 401, "reason", "bad subject", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
			}

			c.Set(CtxUserID, id)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRoles, claims.Roles)
			return next(c)
		}
	}
}

func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(CtxRoles).([]string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			if !slices.Contains(roles, role) {
				logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 403, "reason", "missing role", "role", role)
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to do this")
			}
			return next(c)
		}
	}
}

func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(CtxUserID).(uint)
	if !ok || id == 0 {
		return 0, ErrUnauthorized
	}
	return id, nil
}

func Roles(c echo.Context) []string {
	roles, _ := c.Get(CtxRoles).([]string)
	return roles
}
