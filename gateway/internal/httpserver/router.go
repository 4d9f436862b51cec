package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/gateway/internal/middleware"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/ratelimit"
)

type Upstreams struct {
	Auth    string
	Catalog string
	Order   string
	Report  string
	Notify  string
}

type Deps struct {
	Upstreams    Upstreams
	AccessSecret []byte
	AuthLimiter  *ratelimit.Limiter
	Log          *slog.Logger
}

// Credential endpoints share one per-IP budget.
var limitedAuthPaths = map[string]bool{
	APIPrefix + "/auth/login":    true,
	APIPrefix + "/auth/register": true,
	APIPrefix + "/auth/refresh":  true,
}

func limitAuth(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := l.Middleware()(next)
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodPost && limitedAuthPaths[c.Request().URL.Path] {
				return limited(c)
			}
			return next(c)
		}
	}
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	proxy := func(name, target string) (echo.HandlerFunc, error) {
		return NewProxy(name, target, d.Log)
	}
	authProxy, err := proxy("auth", d.Upstreams.Auth)
	if err != nil {
		return err
	}
	catalogProxy, err := proxy("catalog", d.Upstreams.Catalog)
	if err != nil {
		return err
	}
	orderProxy, err := proxy("order", d.Upstreams.Order)
	if err != nil {
		return err
	}
	reportProxy, err := proxy("report", d.Upstreams.Report)
	if err != nil {
		return err
	}

	api := e.Group(APIPrefix, middleware.JWT(d.AccessSecret))
	if d.AuthLimiter != nil {
		api.Use(limitAuth(d.AuthLimiter))
	}

	api.Any("/auth/*", authProxy)
	api.Any("/users", authProxy)
	api.Any("/users/*", authProxy)
	api.Any("/catalog/*", catalogProxy)
	api.Any("/orders", orderProxy)
	api.Any("/orders/*", orderProxy)
	api.Any("/reports/*", reportProxy)

	if d.Upstreams.Notify != "" {
		notifyProxy, err := proxy("notify", d.Upstreams.Notify)
		if err != nil {
			return err
		}
		e.GET("/ws", notifyProxy)
	}
	return nil
}
