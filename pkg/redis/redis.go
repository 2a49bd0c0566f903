// Package redis builds the shared go-redis client used for session view
// state and the HTTP rate limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/simorq_frontdesk/config"
)

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
)

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// Options maps the central config onto go-redis options, filling in
// defaults for unset pool and timeout values.
func Options(c config.RedisConfig) *goredis.Options {
	opts := &goredis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
		DialTimeout:  seconds(c.DialTimeoutSeconds, 5*time.Second),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, 3*time.Second),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, 3*time.Second),
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		opts.MinIdleConns = c.MinIdleConns
	}
	return opts
}

// NewRedis connects and pings once so a bad address fails at startup.
func NewRedis(ctx context.Context, c config.RedisConfig) (*goredis.Client, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}

	rdb := goredis.NewClient(Options(c))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
