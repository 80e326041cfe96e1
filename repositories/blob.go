//go:generate go run go.uber.org/mock/mockgen -source=blob.go -destination=../mocks/mock_blob_store.go -package=mocks
package repositories

import (
	"chat-local/errors"
	"fmt"
	"sync"
)

type Driver string

const (
	DriverBadger Driver = "badger"
	DriverBolt   Driver = "bolt"
	DriverPebble Driver = "pebble"
	DriverMemory Driver = "memory"
)

// IBlobStore is the local key/value store the chat state lives in.
// Get returns errors.ErrKeyNotFound for a missing key.
type IBlobStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// SetMany writes every entry in one transaction: all of them or none.
	SetMany(values map[string][]byte) error
	Close() error
}

// OpenBlobStore opens the backend named by driver at path.
// The memory driver ignores path.
func OpenBlobStore(driver Driver, path string) (IBlobStore, error) {
	switch driver {
	case DriverBadger:
		return OpenBadgerStore(path, false)
	case DriverBolt:
		return OpenBoltStore(path)
	case DriverPebble:
		return OpenPebbleStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStoreDriver, driver)
	}
}

// MemoryStore keeps blobs in a map. Used by tests and the memory driver.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, errors.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) SetMany(values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range values {
		m.blobs[key] = append([]byte(nil), value...)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
