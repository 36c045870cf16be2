package doselog

import (
	"time"
)

// Log es el registro en memoria de estados por toma.
// No es seguro para uso concurrente; el dueño (session) serializa el acceso.
type Log struct {
	entries []Entry
	index   map[Key]int
}

// NewLog construye un Log a partir de entradas persistidas.
// Si hay claves repetidas gana la última (last-match-wins).
func NewLog(entries []Entry) *Log {
	l := &Log{index: make(map[Key]int, len(entries))}
	for _, e := range entries {
		e.SnoozeUntil = copyTime(e.SnoozeUntil)
		if i, ok := l.index[e.Key()]; ok {
			l.entries[i] = e
			continue
		}
		l.index[e.Key()] = len(l.entries)
		l.entries = append(l.entries, e)
	}
	return l
}

func (l *Log) Len() int { return len(l.entries) }

// Find busca la entrada de una toma.
func (l *Log) Find(k Key) (Entry, bool) {
	i, ok := l.index[k]
	if !ok {
		return Entry{}, false
	}
	e := l.entries[i]
	e.SnoozeUntil = copyTime(e.SnoozeUntil)
	return e, true
}

// Upsert sobrescribe estado y snoozeUntil de la entrada existente, o agrega una nueva.
// newID solo se invoca cuando se crea la entrada. Devuelve la entrada resultante y
// la anterior (si existía).
func (l *Log) Upsert(k Key, status Status, snoozeUntil *time.Time, now time.Time, newID func() string) (Entry, *Entry) {
	if i, ok := l.index[k]; ok {
		prev := l.entries[i]
		e := prev
		e.Status = status
		e.SnoozeUntil = copyTime(snoozeUntil)
		e.UpdatedAt = now
		l.entries[i] = e

		out := e
		out.SnoozeUntil = copyTime(e.SnoozeUntil)
		return out, &prev
	}

	e := Entry{
		ID:           newID(),
		DateKey:      k.DateKey,
		AssignmentID: k.AssignmentID,
		Hour:         k.Hour,
		Minute:       k.Minute,
		Status:       status,
		SnoozeUntil:  copyTime(snoozeUntil),
		UpdatedAt:    now,
	}
	l.index[k] = len(l.entries)
	l.entries = append(l.entries, e)

	out := e
	out.SnoozeUntil = copyTime(e.SnoozeUntil)
	return out, nil
}

// RemoveWhere elimina las entradas que cumplen drop y devuelve cuántas quitó.
func (l *Log) RemoveWhere(drop func(Entry) bool) int {
	kept := l.entries[:0]
	removed := 0
	for _, e := range l.entries {
		if drop(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	// limpiar la cola para no retener punteros
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = Entry{}
	}
	l.entries = kept

	l.index = make(map[Key]int, len(l.entries))
	for i, e := range l.entries {
		l.index[e.Key()] = i
	}
	return removed
}

// RemoveAssignment elimina todas las entradas de una asignación (cascade).
func (l *Log) RemoveAssignment(assignmentID string) int {
	return l.RemoveWhere(func(e Entry) bool { return e.AssignmentID == assignmentID })
}

// Entries devuelve una copia en orden de inserción.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		e.SnoozeUntil = copyTime(e.SnoozeUntil)
		out[i] = e
	}
	return out
}

// ForDay devuelve las entradas de un día.
func (l *Log) ForDay(day DateKey) []Entry {
	out := make([]Entry, 0)
	for _, e := range l.entries {
		if e.DateKey == day {
			e.SnoozeUntil = copyTime(e.SnoozeUntil)
			out = append(out, e)
		}
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
