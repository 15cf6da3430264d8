package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var Redis *redis.Client

// InitRedis connects to REDIS_ADDR. A failed ping leaves Redis nil so callers
// fall back to in-process state.
func InitRedis() {
	if App.RedisAddr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     App.RedisAddr,
		Password: App.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Warnf("Redis at %s unreachable, token revocation stays in memory: %v", App.RedisAddr, err)
		client.Close()
		return
	}

	Redis = client
	logrus.Infof("Connected to Redis at %s", App.RedisAddr)
}
