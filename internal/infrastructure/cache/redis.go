// Package cache connects to the redis instance that holds the token allow-list.
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"teleradiology-case-routing/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// Addr returns host:port of the configured redis server.
func Addr(cfg config.RedisConfig) string {
	return net.JoinHostPort(cfg.Host, cfg.Port)
}

// NewRedisClient opens a client and fails fast when the server is unreachable.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        Addr(cfg),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: pingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", Addr(cfg), err)
	}

	logrus.WithField("addr", Addr(cfg)).Info("Successfully connected to Redis")

	return client, nil
}
