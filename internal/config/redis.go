package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the global pub/sub client; nil when REDIS_ADDR is unset
var Redis *redis.Client

// ConnectRedis opens the client used to fan events out across instances.
// It returns nil, nil when Redis is not configured.
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		log.Println("ℹ️ REDIS_ADDR not set, events stay in-process")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}

	Redis = rdb
	log.Printf("✅ Redis connected [%s db=%d]", cfg.Redis.Addr, cfg.Redis.DB)
	return rdb, nil
}

// CloseRedis closes the global client if one was opened
func CloseRedis() error {
	if Redis == nil {
		return nil
	}
	return Redis.Close()
}
