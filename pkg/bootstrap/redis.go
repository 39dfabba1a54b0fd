package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/PicardRaphael/todo-api-go/pkg/config"
	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
)

// InitRedis connects the Redis client used by the shared rate-limit
// window and checks the connection. Returns (nil, nil) when disabled.
func InitRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorf("redis init failed: %v", err)
		return nil, err
	}

	log.Info("redis initialized successfully")
	return client, nil
}
