package persistence

import (
	"context"
	"errors"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/household"
)

var (
	// ErrNotFound: todavía no existe snapshot (primer arranque).
	ErrNotFound = errors.New("snapshot not found")
)

// Snapshot es el estado completo que se guarda en cada mutación.
type Snapshot struct {
	Members     []household.FamilyMember `json:"members"`
	Medications []household.Medication   `json:"medications"`
	Assignments []household.Assignment   `json:"assignments"`
	DoseLogs    []doselog.Entry          `json:"dose_logs"`
}

// Normalize reemplaza colecciones nil por vacías (para JSON estable).
func (s Snapshot) Normalize() Snapshot {
	if s.Members == nil {
		s.Members = []household.FamilyMember{}
	}
	if s.Medications == nil {
		s.Medications = []household.Medication{}
	}
	if s.Assignments == nil {
		s.Assignments = []household.Assignment{}
	}
	if s.DoseLogs == nil {
		s.DoseLogs = []doselog.Entry{}
	}
	return s
}

// Store carga y guarda el snapshot. Save debe ser atómico: un fallo a mitad de
// escritura no puede dejar un snapshot corrupto.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}
