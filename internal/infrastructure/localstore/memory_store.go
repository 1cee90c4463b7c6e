package localstore

import (
	"sync"

	"github.com/jhoicas/resto-pos/internal/domain/repository"
)

// MemStore implementación en memoria de repository.KeyValueStore.
// Se usa en tests y en sesiones efímeras (pantallas kiosko sin disco).
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ repository.KeyValueStore = (*MemStore)(nil)

// NewMemStore crea un almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string]string{}}
}

func (s *MemStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Snapshot devuelve una copia del contenido. Solo para asserts en tests.
func (s *MemStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
