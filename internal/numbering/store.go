package numbering

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Used by tests and when no Redis is
// configured; state is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// scoped prefixes every key with a profile namespace.
type scoped struct {
	inner  Store
	prefix string
}

// Scoped returns a Store view whose keys live under "profile:<id>:".
func Scoped(inner Store, profileID string) Store {
	return &scoped{inner: inner, prefix: "profile:" + profileID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}
