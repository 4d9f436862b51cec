package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/server"

	catalogcfg "github.com/Skotchmaster/shop_admin/services/catalog/internal/config"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/search"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/service"
)

func main() {
	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pkgdb.Migrate(ctx, db)
	}
	if err != nil {
		cancel()
		log.Fatalf("db init: %v", err)
	}

	svc := &service.CatalogService{Repo: &repo.GormRepo{DB: db}}

	if cfg.ESURL != "" {
		idx, err := search.New(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "reason", "falling back to sql search", "error", err)
		} else {
			svc.Index = idx
		}
	}
	cancel()

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		svc.Events = events.NewNotifier(events.NewProducer(brokers))
	}

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		AccessSecret:   cfg.AccessSecret(),
		Ready:          func() error { return pkgdb.Ping(context.Background(), db) },
	})

	err = server.Run(context.Background(), e, cfg.Addr(), logger, func() {
		if err := svc.Events.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
		pkgdb.Close(db)
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}
}
