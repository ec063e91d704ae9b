package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis connects and pings. The client backs both the idempotency store
// and the notification inbox.
func OpenRedis(opts Options, log *zap.Logger) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	if log != nil {
		log.Info("redis: connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}
	return r, nil
}

// Ping is the health probe for an open client.
func Ping(r *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error { return r.Ping(ctx).Err() }
}
