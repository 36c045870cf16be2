// Package file guarda el snapshot como un documento JSON en disco.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"medication-reminder/internal/ports/persistence"
)

const DefaultPath = "medication_data.json"

type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap persistence.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Normalize(), nil
}

// Save escribe a un archivo temporal en el mismo directorio y lo renombra,
// así un corte a mitad de escritura deja intacto el snapshot anterior.
func (s *Store) Save(ctx context.Context, snap persistence.Snapshot) error {
	b, err := json.MarshalIndent(snap.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
