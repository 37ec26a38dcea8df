package stash

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]Value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]Value),
	}
}

func (s *MemoryStore) Get(_ context.Context, keyspace string, key string) (Value, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[keyspace+"/"+key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers can't mutate stored state through the return value.
	out := make(Value, len(v))
	for sender, e := range v {
		out[sender] = e
	}
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, keyspace string, key string, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(Value, len(value))
	for sender, e := range value {
		stored[sender] = e
	}
	s.values[keyspace+"/"+key] = stored
	return nil
}
