package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. Nothing survives the process; it backs
// tests and throwaway shells.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStore returns a store seeded with a copy of seed (may be nil).
func NewMemoryStore(seed map[string]string) *MemoryStore {
	items := make(map[string]string, len(seed))
	for k, v := range seed {
		items[k] = v
	}
	return &MemoryStore{items: items}
}

func (s *MemoryStore) Read(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
