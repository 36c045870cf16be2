package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/ports/persistence"
)

func TestStore_MissingFile(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "data.json"))
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	until := time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)
	snap := persistence.Snapshot{
		Members: []household.FamilyMember{{ID: "m1", Name: "Ana"}},
		DoseLogs: []doselog.Entry{{
			ID: "l1", DateKey: "2024-03-01", AssignmentID: "a1", Hour: 8,
			Status: doselog.StatusSnoozed, SnoozeUntil: &until,
		}},
	}
	require.NoError(t, s.Save(ctx, snap))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Members[0].Name)
	require.NotNil(t, got.DoseLogs[0].SnoozeUntil)
	assert.True(t, got.DoseLogs[0].SnoozeUntil.Equal(until))
	assert.Empty(t, got.Assignments)

	// no deja temporales
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"members": [`), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, persistence.ErrNotFound))
}
