// Package cache holds the shared state store: blacklist sets and rate counters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreClosed is returned by a store after Close.
var ErrStoreClosed = errors.New("state store closed")

// StateStore is the capability the rule engine needs. Every method is atomic on
// the backing store; callers never read-then-write.
type StateStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	IsMember(ctx context.Context, set, value string) (bool, error)
}

// BlacklistAdmin is used by the administrative tooling that owns blacklist contents.
type BlacklistAdmin interface {
	AddMembers(ctx context.Context, set string, values ...string) (int64, error)
	RemoveMembers(ctx context.Context, set string, values ...string) (int64, error)
	Members(ctx context.Context, set string) ([]string, error)
	// ReplaceMembers swaps the whole set in one step. Readers see either the
	// old or the new contents, never an empty or partial set.
	ReplaceMembers(ctx context.Context, set string, values ...string) error
}

// Store is a state store that also supports administration and health checks.
type Store interface {
	StateStore
	BlacklistAdmin
	Ping(ctx context.Context) error
	Close() error
}

// Store backends selectable through STATE_STORE.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Open returns the configured backend. A redis store is pinged before it is returned.
func Open(ctx context.Context, backend string, cfg *RedisConfig) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(nil), nil
	case BackendRedis, "":
		s := NewRedisStore(NewRedisClient(cfg))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown state store backend %q", backend)
	}
}
