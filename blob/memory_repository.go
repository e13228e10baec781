package blob

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

type memoryRepository struct {
	mu    sync.RWMutex
	store string
	items map[string][]byte
}

// NewMemoryRepository initializes a blob repository that only lives as long as the process. It's used for local
// development and tests.
func NewMemoryRepository(store string) *memoryRepository {
	return &memoryRepository{
		store: store,
		items: make(map[string][]byte),
	}
}

func (s *memoryRepository) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	s.mu.RLock()
	b, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, errors.Wrapf(ErrUndecodable, "decoding blob %s/%s: %s", s.store, key, err)
	}
	return true, nil
}

func (s *memoryRepository) SetJSON(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding blob %s/%s", s.store, key)
	}
	s.mu.Lock()
	s.items[key] = b
	s.mu.Unlock()
	return nil
}

// Len returns the number of keys in the store
func (s *memoryRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
