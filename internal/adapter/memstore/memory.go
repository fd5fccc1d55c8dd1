package memstore

import (
	"fmt"

	"github.com/maypok86/otter"

	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

const DefaultCapacity = 1024

// MemoryStore is a bounded in-process CacheStore. Entries beyond capacity
// are evicted by otter's admission policy.
type MemoryStore struct {
	cache otter.Cache[string, []byte]
}

var _ port.CacheStore = (*MemoryStore)(nil)

func NewMemoryStore(capacity int) (*MemoryStore, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := otter.MustBuilder[string, []byte](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Read(key string) ([]byte, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, port.ErrCacheMiss
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Write(key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...))
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.cache.Delete(key)
}

func (s *MemoryStore) Len() int {
	return s.cache.Size()
}

func (s *MemoryStore) Clear() {
	s.cache.Clear()
}

func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}
