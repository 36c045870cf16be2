package memory

import (
	"context"
	"encoding/json"
	"sync"

	"medication-reminder/internal/ports/persistence"
)

// Store guarda el snapshot en memoria. Útil para dev y tests; no sobrevive reinicios.
type Store struct {
	mu   sync.RWMutex
	data []byte // snapshot serializado; nil => nunca guardado
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	// se guarda serializado para que el llamador nunca comparta punteros con el store
	var snap persistence.Snapshot
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return persistence.Snapshot{}, err
	}
	return snap.Normalize(), nil
}

func (s *Store) Save(ctx context.Context, snap persistence.Snapshot) error {
	b, err := json.Marshal(snap.Normalize())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = b
	return nil
}
