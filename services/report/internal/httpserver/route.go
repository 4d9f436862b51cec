package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type Deps struct {
	ReportHandler *ReportHTTP
	AccessSecret  []byte
	Ready         func() error
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

	reports := e.Group("/reports", auth.RequireAuth(d.AccessSecret), auth.RequireRole(models.RoleAdmin))
	reports.GET("/dashboard", d.ReportHandler.Dashboard)
	reports.GET("/sales", d.ReportHandler.SalesReport)
}
