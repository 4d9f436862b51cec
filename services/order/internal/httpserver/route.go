package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type Deps struct {
	OrderHandler *OrderHTTP
	AccessSecret []byte
	Ready        func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil && d.Ready() != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	orders := e.Group("/orders", auth.RequireAuth(d.AccessSecret))
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)

	admin := orders.Group("", auth.RequireRole(models.RoleAdmin))
	admin.POST("/random", d.OrderHandler.CreateRandomOrder)
	admin.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
}
