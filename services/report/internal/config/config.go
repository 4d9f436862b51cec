package config

import (
	"log"
	"time"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type ServiceConfig struct {
	config.Config

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB,default=0"`
	CacheTTL      time.Duration `env:"REPORT_CACHE_TTL,default=30s"`
	WarmSchedule  string        `env:"REPORT_WARM_SCHEDULE,default=@every 1m"`
}

func Load() ServiceConfig {
	config.LoadDotEnv(".env", "services/report/.env")

	var cfg ServiceConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "report"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}
