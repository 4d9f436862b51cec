package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/services/order/internal/config"
	"github.com/Skotchmaster/shop_admin/services/order/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/order/internal/seed"
	"github.com/Skotchmaster/shop_admin/services/order/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "seed")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)

	if err := pkgdb.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	seeder := &seed.Seeder{
		DB:     db,
		Orders: &service.OrderService{Repo: &repo.GormRepo{DB: db}},
	}
	if _, err := seeder.Seed(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
