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
	"github.com/Skotchmaster/shop_admin/services/order/internal/config"
	"github.com/Skotchmaster/shop_admin/services/order/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/services/order/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/order/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pkgdb.Migrate(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	svc := &service.OrderService{Repo: &repo.GormRepo{DB: db}}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		svc.Events = events.NewNotifier(events.NewProducer(brokers))
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, order events are dropped")
	}

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
		AccessSecret: cfg.AccessSecret(),
		Ready:        func() error { return pkgdb.Ping(context.Background(), db) },
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
