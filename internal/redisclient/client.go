package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/signup/internal/cache/redissnap"
	"github.com/redis/go-redis/v9"
)

// Client owns the shared Redis connection. Redis is optional: when it is not
// configured the API runs with the in-process country cache only.
type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	return wrap(redisdb)
}

func wrap(rdb *redis.Client) *Client {
	return &Client{redisdb: rdb}
}

// Ping checks redis connectivity; used by /readyz.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.redisdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Snapshots returns the country snapshot store backed by this connection.
func (c *Client) Snapshots() *redissnap.Store {
	return redissnap.New(c.redisdb)
}
