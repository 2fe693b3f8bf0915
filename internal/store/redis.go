package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
)

// keyPrefix namespaces storefront keys so a shared Redis instance can host
// other tenants without collisions.
const keyPrefix = "storefront:"

// RedisStore is a Redis-backed implementation of the Store interface for
// deployments where session state is shared across client instances (e.g., a
// kiosk pool behind one login). All methods are safe for concurrent use; the
// underlying go-redis client maintains its own connection pool.
type RedisStore struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewRedisStore connects to Redis using the provided configuration and
// verifies connectivity with a ping before returning.
func NewRedisStore(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	opts.MaxRetries = cfg.MaxRetries
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConn
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.PoolTimeout = cfg.PoolTimeout

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if pingErr := rdb.Ping(ctx).Err(); pingErr != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", pingErr)
	}

	logger.WithField("url", cfg.URL).Info("Connected to Redis session store")
	return &RedisStore{rdb: rdb, logger: logger}, nil
}

// Get returns the value for key, or ErrKeyNotFound when absent.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set persists value under key without expiration; session state lives until
// logout deletes it.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	s.logger.WithField("key", key).Debug("Value stored in Redis")
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	s.logger.WithField("key", key).Debug("Value deleted from Redis")
	return nil
}

// Close gracefully closes the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
