package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	AccessSecret []byte
	Ready        func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	public := e.Group("/auth")
	public.POST("/register", d.AuthHandler.Register)
	public.POST("/login", d.AuthHandler.Login)
	public.POST("/refresh", d.AuthHandler.Refresh)
	public.POST("/logout", d.AuthHandler.LogOut)

	users := e.Group("/users")
	users.Use(auth.RequireAuth(d.AccessSecret))
	users.GET("/me", d.AuthHandler.Me)

	admin := users.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))
	admin.GET("", d.AuthHandler.ListUsers)
	admin.GET("/:id", d.AuthHandler.GetUser)
	admin.PATCH("/:id", d.AuthHandler.UpdateRoles)
	admin.DELETE("/:id", d.AuthHandler.DeleteUser)
}
