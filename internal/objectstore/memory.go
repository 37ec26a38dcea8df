package objectstore

import (
	"context"
	"sync"
)

// MemoryStore holds objects in a map. Backs local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, bucket string, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, bucket string, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[bucket+"/"+key] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, bucket string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, bucket+"/"+key)
	return nil
}

// Exists reports whether an object is currently stored.
func (s *MemoryStore) Exists(bucket string, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[bucket+"/"+key]
	return ok
}
