package storage

import (
	"context"
	"fmt"

	"github.com/abenov/filestash/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the redis instance backing sessions and the
// thumbnail job queue.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, defaultDBTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
