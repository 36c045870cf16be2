package bucket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/ports/persistence"
)

func TestEncodeDecode(t *testing.T) {
	rows, err := Encode(persistence.Snapshot{
		Members: []household.FamilyMember{{ID: "m1", Name: "Ana"}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.JSONEq(t, `[]`, string(rows[DoseLogs]))

	rows["legacy"] = []byte("not json")
	snap, err := Decode(rows)
	require.NoError(t, err)
	assert.Equal(t, "Ana", snap.Members[0].Name)
	assert.NotNil(t, snap.Assignments)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
}

func TestDecode_CorruptBucket(t *testing.T) {
	_, err := Decode(map[string][]byte{Assignments: []byte("{")})
	assert.ErrorContains(t, err, "decode assignments")
}
