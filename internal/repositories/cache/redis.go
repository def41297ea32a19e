package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return redis.NewClient(opts)
}

// RedisStore implements Store on top of a single redis client.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment runs INCR, which creates the key at 1 when absent.
func (s *RedisStore) Increment(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) IsMember(ctx context.Context, set, value string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, set, value).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", set, err)
	}
	return ok, nil
}

func (s *RedisStore) AddMembers(ctx context.Context, set string, values ...string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	return s.client.SAdd(ctx, set, toArgs(values)...).Result()
}

func (s *RedisStore) RemoveMembers(ctx context.Context, set string, values ...string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	return s.client.SRem(ctx, set, toArgs(values)...).Result()
}

func (s *RedisStore) Members(ctx context.Context, set string) ([]string, error) {
	return s.client.SMembers(ctx, set).Result()
}

// ReplaceMembers builds the new set under a staging key and renames it over
// the live key inside MULTI/EXEC.
func (s *RedisStore) ReplaceMembers(ctx context.Context, set string, values ...string) error {
	if len(values) == 0 {
		if err := s.client.Del(ctx, set).Err(); err != nil {
			return fmt.Errorf("del %s: %w", set, err)
		}
		return nil
	}
	staging := set + ":staging"
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, staging)
		pipe.SAdd(ctx, staging, toArgs(values)...)
		pipe.Rename(ctx, staging, set)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", set, err)
	}
	return nil
}

// Ping is the health check used by /health.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// PoolStats exposes connection pool statistics.
func (s *RedisStore) PoolStats() *redis.PoolStats {
	return s.client.PoolStats()
}

// Close closes the Redis client connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
