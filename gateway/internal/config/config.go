package config

import (
	"log"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type GatewayConfig struct {
	config.Config

	AuthURL    string `env:"AUTH_URL"`
	CatalogURL string `env:"CATALOG_URL"`
	OrderURL   string `env:"ORDER_URL"`
	ReportURL  string `env:"REPORT_URL"`
	NotifyURL  string `env:"NOTIFY_URL"`

	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE,default=10"`
}

func Load() GatewayConfig {
	config.LoadDotEnv(".env", "gateway/.env")

	var cfg GatewayConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gateway"
	}

	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.OrderURL, "ORDER_URL")
	config.MustNonEmpty(cfg.ReportURL, "REPORT_URL")

	return cfg
}
