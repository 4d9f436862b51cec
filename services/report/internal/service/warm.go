package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

// StartWarmer refreshes the cached dashboard on schedule. Stop the returned cron on shutdown.
func StartWarmer(schedule string, svc *ReportService, log *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ctx = logging.IntoContext(ctx, log)

		if err := svc.Warm(ctx); err != nil {
			log.Warn("dashboard_warm_failed", "error", err)
			return
		}
		log.Debug("dashboard_warmed")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
