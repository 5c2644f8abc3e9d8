// Package redis backs the token denylist with Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedPrefix namespaces denylist entries: revoked:<jti>.
const revokedPrefix = "revoked:"

// dialTimeout bounds both the startup ping and each readiness ping.
const dialTimeout = 5 * time.Second

// Config is the REDIS_* section of the service config. An empty Addr means
// the denylist is disabled.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return dialTimeout
	}
	return c.Timeout
}

// Connect opens the denylist client and fails fast when Redis does not answer
// a ping within the configured timeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.timeout(),
		ReadTimeout:  cfg.timeout(),
		WriteTimeout: cfg.timeout(),
	})

	if err := Ready(client, cfg.timeout())(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ready returns the /readyz check for the denylist backend. Each ping gets its
// own deadline of timeout, or dialTimeout when timeout is not positive.
func Ready(client *redis.Client, timeout time.Duration) func(context.Context) error {
	if timeout <= 0 {
		timeout = dialTimeout
	}
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	}
}

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}
