package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	Client *redis.Client
}

type Config interface {
	GetAddr() string
	GetPassword() string
	GetDB() int
}

// New connects to Redis and pings it. go-redis maintains an internal pool and
// retries/reconnects on transient failures, so the client is created once at
// startup and shared for the process lifetime.
func New(ctx context.Context, config Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.GetAddr(),
		Password: config.GetPassword(),
		DB:       config.GetDB(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
