// Package redis holds the Redis-backed pieces shared by the console and the
// dev backend: the session record store and the login attempt limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialBudget = 5 * time.Second

// Config selects the server. Timeout bounds dialing, reads and the initial
// PING.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

func (c Config) options() *redis.Options {
	budget := c.Timeout
	if budget <= 0 {
		budget = dialBudget
	}
	return &redis.Options{
		Addr:        c.Addr,
		DB:          c.DB,
		DialTimeout: budget,
		ReadTimeout: budget,
	}
}

// Connect opens a client and fails unless the server answers PING within the
// configured timeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
