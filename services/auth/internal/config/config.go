package config

import (
	"log"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type ServiceConfig struct {
	config.Config

	CookieSecure bool `env:"COOKIE_SECURE,default=true"`
}

func Load() ServiceConfig {
	config.LoadDotEnv(".env", "services/auth/.env")

	var cfg ServiceConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "auth"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return cfg
}
