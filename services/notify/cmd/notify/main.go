package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/server"

	notifycfg "github.com/Skotchmaster/shop_admin/services/notify/internal/config"
	"github.com/Skotchmaster/shop_admin/services/notify/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/services/notify/internal/hub"
)

func main() {
	cfg := notifycfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	h := hub.New(cfg.ClientBuffer, logger)
	consumer := events.NewConsumer(cfg.KafkaBrokers(), cfg.ConsumerGroup, events.Topics)

	ctx, cancel := context.WithCancel(logging.IntoContext(context.Background(), logger))
	consumed := make(chan error, 1)
	go func() {
		consumed <- consumer.Run(ctx, func(ev events.Event) {
			n := h.Broadcast(ev)
			logger.Debug("event_broadcast", "type", ev.Type, "entity_id", ev.EntityID, "clients", n)
		})
	}()

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	httpserver.Register(e, &httpserver.Deps{
		WS: httpserver.NewWSHandler(h, cfg.CORSOrigins()),
	})

	err := server.Run(ctx, e, cfg.Addr(), logger, func() {
		cancel()
		if err := <-consumed; err != nil {
			logger.Error("consumer_stopped", "error", err)
		}
		if err := consumer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
		h.Close()
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}
}
