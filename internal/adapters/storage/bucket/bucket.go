// Package bucket reparte un snapshot en filas (bucket, payload JSON) para los
// stores SQL. Cada colección va en su propio bucket.
package bucket

import (
	"encoding/json"
	"fmt"

	"medication-reminder/internal/ports/persistence"
)

const (
	Members     = "members"
	Medications = "medications"
	Assignments = "assignments"
	DoseLogs    = "dose_logs"
)

// Names en orden de escritura.
var Names = []string{Members, Medications, Assignments, DoseLogs}

// Encode devuelve el payload JSON de cada bucket.
func Encode(snap persistence.Snapshot) (map[string][]byte, error) {
	snap = snap.Normalize()
	out := make(map[string][]byte, len(Names))
	for _, name := range Names {
		var (
			data []byte
			err  error
		)
		switch name {
		case Members:
			data, err = json.Marshal(snap.Members)
		case Medications:
			data, err = json.Marshal(snap.Medications)
		case Assignments:
			data, err = json.Marshal(snap.Assignments)
		case DoseLogs:
			data, err = json.Marshal(snap.DoseLogs)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// Decode arma el snapshot; buckets desconocidos se ignoran y los ausentes quedan vacíos.
// Sin filas devuelve persistence.ErrNotFound.
func Decode(rows map[string][]byte) (persistence.Snapshot, error) {
	if len(rows) == 0 {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	var snap persistence.Snapshot
	for name, payload := range rows {
		var target any
		switch name {
		case Members:
			target = &snap.Members
		case Medications:
			target = &snap.Medications
		case Assignments:
			target = &snap.Assignments
		case DoseLogs:
			target = &snap.DoseLogs
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return persistence.Snapshot{}, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return snap.Normalize(), nil
}
