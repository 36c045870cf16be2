package doses

import (
	"sort"
	"time"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/household"
)

// Resolve expande las asignaciones activas en las tomas del día calendario de date (en loc),
// aplicando los estados del Dose Log. Es una proyección pura: mismas entradas, misma salida.
//
// Referencias colgantes (miembro o medicamento inexistente) y horas inválidas se omiten
// sin fallar el lote.
func Resolve(in Input, date time.Time, loc *time.Location) []ResolvedDose {
	if loc == nil {
		loc = time.Local
	}
	day := date.In(loc)
	y, m, d := day.Date()
	key := doselog.DateKeyOf(day, loc)

	memberByID := make(map[string]household.FamilyMember, len(in.Members))
	for _, mem := range in.Members {
		memberByID[mem.ID] = mem
	}
	medByID := make(map[string]household.Medication, len(in.Medications))
	for _, med := range in.Medications {
		medByID[med.ID] = med
	}

	out := make([]ResolvedDose, 0)
	seen := map[doselog.Key]int{}

	for _, a := range in.Assignments {
		if !a.IsActive {
			continue
		}
		member, ok := memberByID[a.MemberID]
		if !ok {
			continue
		}
		med, ok := medByID[a.MedicationID]
		if !ok {
			continue
		}
		if !a.Schedule.OccursOn(day, loc) {
			continue
		}

		for _, t := range a.Schedule.Times {
			if !t.Valid() {
				continue
			}

			dose := ResolvedDose{
				DateKey:    key,
				Assignment: a,
				Member:     member,
				Medication: med,
				Hour:       t.Hour,
				Minute:     t.Minute,
				DateTime:   time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc),
				Status:     doselog.StatusPending,
			}
			if in.Log != nil {
				if e, found := in.Log.Find(dose.LogKey()); found {
					dose.Status = e.Status
					dose.SnoozeUntil = e.SnoozeUntil
				}
			}

			// horas repetidas dentro de una asignación: una sola toma por clave
			if i, dup := seen[dose.LogKey()]; dup {
				out[i] = dose
				continue
			}
			seen[dose.LogKey()] = len(out)
			out = append(out, dose)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

// Next devuelve la próxima toma abierta (pending o snoozed), ordenando por
// snoozeUntil si existe y si no por la hora programada.
func Next(list []ResolvedDose) (ResolvedDose, bool) {
	var best ResolvedDose
	found := false
	for _, d := range list {
		if !d.Open() {
			continue
		}
		if !found || d.DueAt().Before(best.DueAt()) {
			best = d
			found = true
		}
	}
	return best, found
}
