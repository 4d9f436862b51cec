package config

import (
	"log"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	config.LoadDotEnv(".env", "services/order/.env")

	var cfg ServiceConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}
