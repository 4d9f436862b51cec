// Package cache stores computed dashboards in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Skotchmaster/shop_admin/services/report/internal/aggregate"
)

const DashboardKey = "report:dashboard"

var ErrMiss = errors.New("cache miss")

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(cfg Config) *RedisCache {
	return &RedisCache{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
		TTL: cfg.TTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) GetDashboard(ctx context.Context) (aggregate.Dashboard, error) {
	raw, err := c.Client.Get(ctx, DashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return aggregate.Dashboard{}, ErrMiss
	}
	if err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("redis get: %w", err)
	}

	var d aggregate.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return aggregate.Dashboard{}, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return d, nil
}

func (c *RedisCache) SetDashboard(ctx context.Context, d aggregate.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.Client.Set(ctx, DashboardKey, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
