package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by every service. Services embed it and add their own fields.
type Config struct {
	ServiceName string `env:"SERVICE_NAME"`
	ServerPort  int    `env:"SERVER_PORT,default=8080"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	DatabaseURL string `env:"DATABASE_URL"`

	JWTAccessSecret  string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL,default=15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL,default=168h"`

	KafkaBrokersRaw string `env:"KAFKA_BROKERS"`
	CORSOriginsRaw  string `env:"CORS_ORIGINS,default=http://localhost:5173"`
}

// LoadDotEnv reads the first existing file. A missing file is not an error.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("warning: could not load %s: %v", p, err)
		}
		return
	}
}

func Load() (Config, error) {
	var cfg Config
	if err := Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode fills any struct tagged with `env:"..."` from the environment.
func Decode(target any) error {
	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode env: %w", err)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func (c Config) KafkaBrokers() []string {
	return CSV(c.KafkaBrokersRaw)
}

func (c Config) CORSOrigins() []string {
	return CSV(c.CORSOriginsRaw)
}

func (c Config) AccessSecret() []byte  { return []byte(c.JWTAccessSecret) }
func (c Config) RefreshSecret() []byte { return []byte(c.JWTRefreshSecret) }

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
