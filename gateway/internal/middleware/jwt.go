package middleware

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

const CtxClaims = "claims"

// Public paths reach upstreams without a bearer token.
var publicPrefixes = []string{"/api/v1/auth/", "/ws", "/health/", "/metrics"}

func IsPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// JWT verifies access tokens at the edge. Upstreams verify them again.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  CtxClaims,
		TokenLookup: "header:Authorization:Bearer ",
		Skipper: func(c echo.Context) bool {
			return IsPublic(c.Request().URL.Path)
		},
		ParseTokenFunc: func(_ echo.Context, auth string) (any, error) {
			return tokens.AccessClaimsFromToken(auth, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "gateway.jwt")
			var missing *echojwt.TokenExtractionError
			if errors.As(err, &missing) {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token", "path", c.Request().URL.Path)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		},
	})
}
