package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type counter struct {
	value     int64
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store. It is safe for concurrent use and honours
// TTLs against an injectable clock.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]*counter
	sets     map[string]map[string]struct{}
	closed   bool
}

// NewMemoryStore creates an empty store. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:      now,
		counters: make(map[string]*counter),
		sets:     make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) live(key string) *counter {
	c, ok := s.counters[key]
	if !ok {
		return nil
	}
	if !c.expiresAt.IsZero() && !s.now().Before(c.expiresAt) {
		delete(s.counters, key)
		return nil
	}
	return c
}

func (s *MemoryStore) Increment(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	c := s.live(key)
	if c == nil {
		c = &counter{}
		s.counters[key] = c
	}
	c.value++
	return c.value, nil
}

func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if c := s.live(key); c != nil {
		c.expiresAt = s.now().Add(ttl)
	}
	return nil
}

// TTL reports the remaining lifetime of a counter; -1 when it has none, -2 when absent.
func (s *MemoryStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.live(key)
	switch {
	case c == nil:
		return -2
	case c.expiresAt.IsZero():
		return -1
	default:
		return c.expiresAt.Sub(s.now())
	}
}

func (s *MemoryStore) IsMember(ctx context.Context, set, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrStoreClosed
	}

	_, ok := s.sets[set][value]
	return ok, nil
}

func (s *MemoryStore) AddMembers(ctx context.Context, set string, values ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	members, ok := s.sets[set]
	if !ok {
		members = make(map[string]struct{})
		s.sets[set] = members
	}
	var added int64
	for _, v := range values {
		if _, exists := members[v]; !exists {
			members[v] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (s *MemoryStore) RemoveMembers(ctx context.Context, set string, values ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	var removed int64
	for _, v := range values {
		if _, exists := s.sets[set][v]; exists {
			delete(s.sets[set], v)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Members(ctx context.Context, set string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	out := make([]string, 0, len(s.sets[set]))
	for v := range s.sets[set] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) ReplaceMembers(ctx context.Context, set string, values ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	members := make(map[string]struct{}, len(values))
	for _, v := range values {
		members[v] = struct{}{}
	}
	s.sets[set] = members
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
