package doses

import (
	"fmt"
	"time"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/household"
)

// ResolvedDose es una toma concreta de un día, con su estado resuelto.
// Se reconstruye en cada resolución; no se persiste.
type ResolvedDose struct {
	DateKey    doselog.DateKey
	Assignment household.Assignment
	Member     household.FamilyMember
	Medication household.Medication

	Hour   int
	Minute int

	DateTime    time.Time
	Status      doselog.Status
	SnoozeUntil *time.Time
}

// Key es la identidad estable de la toma: día/asignación/HH:MM.
func (d ResolvedDose) Key() string {
	return fmt.Sprintf("%s/%s/%02d:%02d", d.DateKey, d.Assignment.ID, d.Hour, d.Minute)
}

func (d ResolvedDose) LogKey() doselog.Key {
	return doselog.Key{DateKey: d.DateKey, AssignmentID: d.Assignment.ID, Hour: d.Hour, Minute: d.Minute}
}

// DueAt es el instante efectivo: snoozeUntil si existe, si no la hora programada.
func (d ResolvedDose) DueAt() time.Time {
	if d.SnoozeUntil != nil {
		return *d.SnoozeUntil
	}
	return d.DateTime
}

// Open indica si la toma sigue abierta (pending o snoozed).
func (d ResolvedDose) Open() bool {
	return d.Status == doselog.StatusPending || d.Status == doselog.StatusSnoozed
}

// IsDue indica si la toma ya debería atenderse en now. Un snooze vencido vuelve a estar due.
func (d ResolvedDose) IsDue(now time.Time) bool {
	return d.Open() && !d.DueAt().After(now)
}

// Input agrupa lo que necesita la resolución.
type Input struct {
	Members     []household.FamilyMember
	Medications []household.Medication
	Assignments []household.Assignment
	Log         LogReader
}

// LogReader es la vista de solo lectura del Dose Log que usa el motor.
type LogReader interface {
	Find(k doselog.Key) (doselog.Entry, bool)
}
