package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/server"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/config"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = pkgdb.Migrate(initCtx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	authHTTP := &httpserver.AuthHTTP{
		Svc: &service.AuthService{
			Repo: &repo.GormRepo{DB: db},
			Tokens: &tokens.Issuer{
				AccessSecret:  cfg.AccessSecret(),
				RefreshSecret: cfg.RefreshSecret(),
				AccessTTL:     cfg.AccessTokenTTL,
				RefreshTTL:    cfg.RefreshTokenTTL,
			},
		},
		CookieSecure: cfg.CookieSecure,
	}

	e := server.New(cfg.ServiceName, logger, cfg.CORSOrigins())
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  authHTTP,
		AccessSecret: cfg.AccessSecret(),
		Ready:        func() error { return pkgdb.Ping(context.Background(), db) },
	})

	if err := server.Run(context.Background(), e, cfg.Addr(), logger, func() { pkgdb.Close(db) }); err != nil {
		log.Fatalf("server: %v", err)
	}
}
