package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/services/report/internal/service"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.dashboard")

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return toHTTP(l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ReportHTTP) SalesReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.sales_report")

	rep, err := h.Svc.SalesReport(ctx, c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return toHTTP(l, "sales_report_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func toHTTP(l *slog.Logger, event string, err error) error {
	if errors.Is(err, service.ErrValidation) {
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
