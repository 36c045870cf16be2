package memory

import (
	"context"
	"errors"
	"testing"

	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/ports/persistence"
)

func TestStore_LoadBeforeSave(t *testing.T) {
	_, err := NewStore().Load(context.Background())
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	notes := "con comida"
	snap := persistence.Snapshot{
		Medications: []household.Medication{{ID: "x1", Name: "Ibuprofeno", Notes: &notes}},
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	notes = "changed"
	snap.Medications[0].Name = "changed"

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Medications[0].Name != "Ibuprofeno" || *got.Medications[0].Notes != "con comida" {
		t.Fatalf("store shares memory with caller: %+v", got.Medications[0])
	}
	if got.Members == nil || got.DoseLogs == nil {
		t.Fatalf("expected normalized collections")
	}
}
