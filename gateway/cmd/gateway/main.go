package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/shop_admin/pkg/server"

	"github.com/Skotchmaster/shop_admin/gateway/internal/config"
	"github.com/Skotchmaster/shop_admin/gateway/internal/httpserver"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	// Proxied websocket connections outlive any per-request deadline.
	e.Server.ReadTimeout = 0
	e.Server.WriteTimeout = 0

	err := httpserver.Register(e, &httpserver.Deps{
		Upstreams: httpserver.Upstreams{
			Auth:    cfg.AuthURL,
			Catalog: cfg.CatalogURL,
			Order:   cfg.OrderURL,
			Report:  cfg.ReportURL,
			Notify:  cfg.NotifyURL,
		},
		AccessSecret: cfg.AccessSecret(),
		AuthLimiter:  ratelimit.PerMinute(cfg.AuthRatePerMinute),
		Log:          logger,
	})
	if err != nil {
		log.Fatalf("routes: %v", err)
	}

	if err := server.Run(context.Background(), e, cfg.Addr(), logger); err != nil {
		log.Fatalf("server: %v", err)
	}
}
