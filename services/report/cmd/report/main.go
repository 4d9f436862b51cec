package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/server"

	"github.com/Skotchmaster/shop_admin/services/report/internal/cache"
	reportcfg "github.com/Skotchmaster/shop_admin/services/report/internal/config"
	"github.com/Skotchmaster/shop_admin/services/report/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/services/report/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/report/internal/service"
)

func main() {
	cfg := reportcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pkgdb.Migrate(ctx, db)
	}
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	svc := &service.ReportService{Repo: &repo.GormRepo{DB: db}}

	var rc *cache.RedisCache
	if cfg.RedisAddr != "" {
		rc = cache.New(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis_unavailable", "reason", "cache errors will be bypassed", "error", err)
		}
		svc.Cache = rc
	}

	var stopWarmer func()
	if svc.Cache != nil {
		warmer, err := service.StartWarmer(cfg.WarmSchedule, svc, logger)
		if err != nil {
			log.Fatalf("warmer: %v", err)
		}
		stopWarmer = func() { <-warmer.Stop().Done() }
	}

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	httpserver.Register(e, &httpserver.Deps{
		ReportHandler: &httpserver.ReportHTTP{Svc: svc},
		AccessSecret:  cfg.AccessSecret(),
		Ready:         func() error { return pkgdb.Ping(context.Background(), db) },
	})

	err = server.Run(context.Background(), e, cfg.Addr(), logger, func() {
		if stopWarmer != nil {
			stopWarmer()
		}
		if err := rc.Close(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
		pkgdb.Close(db)
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}
}
