package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis returns a connected client, or nil when REDIS_ADDRESS is
// unset and the caller should fall back to process-local state.
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	if cfg.RedisAddress == "" {
		logrus.Warn("REDIS_ADDRESS not set, using in-process rate limits and token revocation")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	logrus.WithField("address", cfg.RedisAddress).Info("Connected to Redis")
	return client, nil
}
