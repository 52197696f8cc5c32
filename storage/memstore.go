package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/wkalt/usmap/util"
)

/*
Memstore is an in-memory storage provider backed by a map. It is only suitable for tests.
*/

////////////////////////////////////////////////////////////////////////////////

// MemStore is an in-memory store.
type MemStore struct {
	data map[string][]byte
	mtx  *sync.RWMutex
}

// Put stores an object in the store.
func (m *MemStore) Put(_ context.Context, key string, data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.data[key] = data
	return nil
}

// Get retrieves an object from the store.
func (m *MemStore) Get(_ context.Context, key string) (io.ReadSeekCloser, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return util.NewReadSeekNopCloser(bytes.NewReader(data)), nil
}

// List returns the stored keys under prefix.
func (m *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	keys := []string{}
	for _, key := range util.Okeys(m.data) {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *MemStore) String() string {
	return "memory"
}

// NewMemStore returns a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string][]byte),
		mtx:  &sync.RWMutex{},
	}
}
