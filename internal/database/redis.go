// internal/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"live-service/internal/config"
	"live-service/internal/model"
)

// NewRedis connects to the fan-out backbone and verifies it with a ping.
// Startup must fail when the backbone is unreachable: a process joining a
// multi-process deployment without it would hold an inconsistent room view.
func NewRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBackboneUnavailable, err)
	}

	return client, nil
}
