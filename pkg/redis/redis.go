package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/salusapp/salus_backend/config"
)

// NewRedisFromCentral builds a connected client from the central redis
// section, filling unset pool and timeout knobs with defaults.
func NewRedisFromCentral(cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     intOr(cfg.PoolSize, 10),
		MinIdleConns: intOr(cfg.MinIdleConns, 2),
		DialTimeout:  secondsOr(cfg.DialTimeoutSeconds, 5*time.Second),
		ReadTimeout:  secondsOr(cfg.ReadTimeoutSeconds, 3*time.Second),
		WriteTimeout: secondsOr(cfg.WriteTimeoutSeconds, 3*time.Second),
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func secondsOr(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
