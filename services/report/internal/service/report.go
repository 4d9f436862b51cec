package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/services/report/internal/aggregate"
	"github.com/Skotchmaster/shop_admin/services/report/internal/cache"
)

var ErrValidation = errors.New("validation error")

type ReportRepository interface {
	AllOrders(ctx context.Context) ([]models.Order, error)
	OrdersBetween(ctx context.Context, start, end time.Time) ([]models.Order, error)
	ProductNames(ctx context.Context, ids []uint) (map[uint]string, error)
}

type DashboardCache interface {
	GetDashboard(ctx context.Context) (aggregate.Dashboard, error)
	SetDashboard(ctx context.Context, d aggregate.Dashboard) error
}

// ReportService computes admin reports. Cache is optional.
type ReportService struct {
	Repo  ReportRepository
	Cache DashboardCache
}

func (s *ReportService) Dashboard(ctx context.Context) (aggregate.Dashboard, error) {
	l := logging.FromContext(ctx).With("op", "report.dashboard")

	if s.Cache != nil {
		d, err := s.Cache.GetDashboard(ctx)
		switch {
		case err == nil:
			metrics.ReportCacheLookup("hit")
			return d, nil
		case errors.Is(err, cache.ErrMiss):
			metrics.ReportCacheLookup("miss")
		default:
			metrics.ReportCacheLookup("error")
			l.Warn("dashboard_cache_get_failed", "error", err)
		}
	}

	d, err := s.computeDashboard(ctx)
	if err != nil {
		return aggregate.Dashboard{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetDashboard(ctx, d); err != nil {
			l.Warn("dashboard_cache_set_failed", "error", err)
		}
	}
	return d, nil
}

// Warm recomputes the dashboard and stores it regardless of what is cached.
func (s *ReportService) Warm(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	d, err := s.computeDashboard(ctx)
	if err != nil {
		return err
	}
	return s.Cache.SetDashboard(ctx, d)
}

func (s *ReportService) computeDashboard(ctx context.Context) (aggregate.Dashboard, error) {
	orders, err := s.Repo.AllOrders(ctx)
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("load orders: %w", err)
	}

	lookup := func(ids []uint) map[uint]string {
		names, err := s.Repo.ProductNames(ctx, ids)
		if err != nil {
			logging.FromContext(ctx).Warn("product_names_lookup_failed", "ids", ids, "error", err)
			return nil
		}
		return names
	}
	return aggregate.ComputeDashboard(orders, lookup), nil
}

func (s *ReportService) SalesReport(ctx context.Context, startRaw, endRaw string) (aggregate.SalesReport, error) {
	start, _, err := ParseDate(startRaw)
	if err != nil {
		return aggregate.SalesReport{}, fmt.Errorf("%w: start_date: %v", ErrValidation, err)
	}
	end, dateOnly, err := ParseDate(endRaw)
	if err != nil {
		return aggregate.SalesReport{}, fmt.Errorf("%w: end_date: %v", ErrValidation, err)
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if start.After(end) {
		return aggregate.SalesReport{}, fmt.Errorf("%w: start_date is after end_date", ErrValidation)
	}

	orders, err := s.Repo.OrdersBetween(ctx, start, end)
	if err != nil {
		return aggregate.SalesReport{}, fmt.Errorf("load orders: %w", err)
	}
	return aggregate.ComputeSalesReport(orders, start, end), nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339. dateOnly reports which form matched.
func ParseDate(raw string) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, errors.New("is required")
	}
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return d.UTC(), true, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, errors.New("must be YYYY-MM-DD or RFC3339")
	}
	return t.UTC(), false, nil
}
