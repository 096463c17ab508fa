package storage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory returns an in-process Store for tests and ephemeral runs.
func NewMemory() Store {
	return &memoryStore{items: make(map[string][]byte)}
}

func (s *memoryStore) SaveDraft(_ context.Context, kind, id string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.items[draftKey(kind, id)] = cp
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) LoadDraft(_ context.Context, kind, id string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.items[draftKey(kind, id)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *memoryStore) DeleteDraft(_ context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := draftKey(kind, id)
	if _, ok := s.items[key]; !ok {
		return ErrNotFound
	}
	delete(s.items, key)
	return nil
}

func (s *memoryStore) ListDraftIDs(_ context.Context, kind string) ([]string, error) {
	prefix := draftKey(kind, "")
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for key := range s.items {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			ids = append(ids, key[len(prefix):])
		}
	}
	return ids, nil
}
