package config

import (
	"log"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type ServiceConfig struct {
	config.Config

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX,default=products"`
}

func Load() ServiceConfig {
	config.LoadDotEnv(".env", "services/catalog/.env")

	var cfg ServiceConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}
