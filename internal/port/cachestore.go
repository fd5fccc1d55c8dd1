package port

import "errors"

// ErrCacheMiss is returned by CacheStore.Read when no value is stored for a key.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the durable tier behind the document cache.
type CacheStore interface {
	// Read returns the stored value, or ErrCacheMiss.
	Read(key string) ([]byte, error)

	// Write stores value under key, replacing any previous value.
	Write(key string, value []byte) error
}

// StoreFuncs adapts a pair of plain functions to CacheStore.
// A nil ReadFn always misses and a nil WriteFn discards writes.
type StoreFuncs struct {
	ReadFn  func(key string) ([]byte, error)
	WriteFn func(key string, value []byte) error
}

func (f StoreFuncs) Read(key string) ([]byte, error) {
	if f.ReadFn == nil {
		return nil, ErrCacheMiss
	}
	return f.ReadFn(key)
}

func (f StoreFuncs) Write(key string, value []byte) error {
	if f.WriteFn == nil {
		return nil
	}
	return f.WriteFn(key, value)
}
