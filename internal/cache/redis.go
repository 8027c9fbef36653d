package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is a shared cache tier backed by go-redis. Keys are namespaced by prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewRedis connects to url and verifies the connection with PING.
func NewRedis(ctx context.Context, url, prefix string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", opts.Addr, err)
	}

	return &Redis{client: client, prefix: prefix, ttl: ttl, log: logrus.StandardLogger()}, nil
}

// WithPrefix returns a view of the same connection under another namespace.
func (r *Redis) WithPrefix(prefix string) *Redis {
	cp := *r
	cp.prefix = prefix
	return &cp
}

// SetLogger replaces the logger used for tier failures.
func (r *Redis) SetLogger(log logrus.FieldLogger) {
	r.log = log
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("key", key).Debug("Redis get failed")
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Debug("Redis set failed")
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Debug("Redis delete failed")
	}
}

// Close releases the connection pool. Views created by WithPrefix share it.
func (r *Redis) Close() error {
	return r.client.Close()
}
