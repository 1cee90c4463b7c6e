package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/resto-pos/internal/domain/repository"
)

// FileStore implementa repository.KeyValueStore sobre un archivo JSON plano,
// el equivalente de escritorio del local storage del navegador. Cada Set y
// Delete persiste de inmediato con escritura atómica (tmp + rename) para no
// dejar el archivo a medias si el proceso muere.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

var _ repository.KeyValueStore = (*FileStore)(nil)

// NewFileStore abre (o crea) el almacén en la ruta dada.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("localstore: leer %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			// Archivo corrupto: se descarta, el operador volverá a iniciar sesión.
			s.data = map[string]string{}
		}
	}
	return s, nil
}

// Get devuelve el valor de la clave, o "" si no existe.
func (s *FileStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Set escribe la clave y persiste el archivo.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

// Delete elimina la clave y persiste el archivo.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: serializar: %w", err)
	}
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("localstore: crear directorio: %w", err)
		}
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("localstore: escribir %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("localstore: renombrar: %w", err)
	}
	return nil
}
