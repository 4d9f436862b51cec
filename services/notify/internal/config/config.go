package config

import (
	"log"

	"github.com/Skotchmaster/shop_admin/pkg/config"
)

type ServiceConfig struct {
	config.Config

	ConsumerGroup string `env:"KAFKA_GROUP_ID,default=notify"`
	ClientBuffer  int    `env:"WS_CLIENT_BUFFER,default=16"`
}

func Load() ServiceConfig {
	config.LoadDotEnv(".env", "services/notify/.env")

	var cfg ServiceConfig
	if err := config.Decode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "notify"
	}

	config.MustNonEmpty(cfg.KafkaBrokersRaw, "KAFKA_BROKERS")

	return cfg
}
