package doselog

import (
	"time"
)

// Status es el estado de una toma concreta.
// @Enum pending, taken, snoozed, skipped
type Status string

const (
	StatusPending Status = "pending"
	StatusTaken   Status = "taken"
	StatusSnoozed Status = "snoozed"
	StatusSkipped Status = "skipped"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusTaken, StatusSnoozed, StatusSkipped:
		return true
	default:
		return false
	}
}

// DateKey es el día calendario local en formato YYYY-MM-DD.
type DateKey string

const dateKeyLayout = "2006-01-02"

// DateKeyOf devuelve el día calendario de t en loc (medianoche a medianoche local).
func DateKeyOf(t time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.Local
	}
	return DateKey(t.In(loc).Format(dateKeyLayout))
}

// ParseDateKey interpreta s como día calendario en loc (a medianoche).
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dateKeyLayout, s, loc)
}

// Entry sobrescribe el estado implícito (pending) de una toma.
type Entry struct {
	ID           string     `json:"id"`
	DateKey      DateKey    `json:"date_key"`
	AssignmentID string     `json:"assignment_id"`
	Hour         int        `json:"hour"`
	Minute       int        `json:"minute"`
	Status       Status     `json:"status"`
	SnoozeUntil  *time.Time `json:"snooze_until,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Key identifica una toma: (día, asignación, hora, minuto).
type Key struct {
	DateKey      DateKey
	AssignmentID string
	Hour         int
	Minute       int
}

func (e Entry) Key() Key {
	return Key{DateKey: e.DateKey, AssignmentID: e.AssignmentID, Hour: e.Hour, Minute: e.Minute}
}
