package session

import (
	"context"
	"strings"
	"time"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/doses"
	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/domain/reminders"
)

// SnoozePresets son las opciones de posponer que ofrece la UI (minutos).
var SnoozePresets = []int{10, 15, 30}

const MaxSnoozeMinutes = 24 * 60

type StatusInput struct {
	AssignmentID string
	Date         time.Time // cualquier instante del día calendario local
	Hour         int
	Minute       int
	Status       doselog.Status

	// Obligatorio para snoozed. Si no se pasa, se limpia (no se arrastra uno viejo).
	SnoozeUntil *time.Time
}

// SetStatus registra el estado de una toma (last-write-wins, sin historial) y guarda.
// Todos los estados son alcanzables desde cualquier otro. Un fallo al guardar no
// se devuelve: queda en LastSaveError y el estado en memoria se mantiene.
//
// Al pasar a snoozed se agenda un trigger de un solo disparo; si la toma ya estaba
// pospuesta, primero se cancela el trigger anterior.
func (s *Session) SetStatus(ctx context.Context, in StatusInput) (doselog.Entry, error) {
	in.AssignmentID = strings.TrimSpace(in.AssignmentID)
	if in.AssignmentID == "" || in.Date.IsZero() || !in.Status.Valid() {
		return doselog.Entry{}, ErrInvalidInput
	}
	tod := household.TimeOfDay{Hour: in.Hour, Minute: in.Minute}
	if !tod.Valid() {
		return doselog.Entry{}, ErrInvalidInput
	}
	if in.Status == doselog.StatusSnoozed && in.SnoozeUntil == nil {
		return doselog.Entry{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndexLocked(in.AssignmentID)
	if idx < 0 {
		return doselog.Entry{}, ErrNotFound
	}
	a := s.assignments[idx]
	if !scheduleHasTime(a.Schedule, tod) {
		return doselog.Entry{}, ErrInvalidInput
	}

	key := doselog.Key{
		DateKey:      doselog.DateKeyOf(in.Date, s.loc),
		AssignmentID: a.ID,
		Hour:         in.Hour,
		Minute:       in.Minute,
	}
	entry, prev := s.doseLog.Upsert(key, in.Status, in.SnoozeUntil, s.now(), s.newID)

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(in.Status)).Inc()
	}
	s.log.Debug("dose status set", map[string]any{
		"assignment_id": a.ID,
		"date_key":      string(key.DateKey),
		"time":          tod.String(),
		"status":        string(in.Status),
	})

	s.saveLocked(ctx)
	s.syncSnoozeLocked(ctx, a, key, prev, entry)
	return entry, nil
}

type SnoozeInput struct {
	AssignmentID string
	Date         time.Time
	Hour         int
	Minute       int
	Minutes      int
}

// Snooze pospone una toma Minutes minutos desde ahora.
func (s *Session) Snooze(ctx context.Context, in SnoozeInput) (doselog.Entry, error) {
	if in.Minutes <= 0 || in.Minutes > MaxSnoozeMinutes {
		return doselog.Entry{}, ErrInvalidInput
	}
	until := s.now().Add(time.Duration(in.Minutes) * time.Minute)
	return s.SetStatus(ctx, StatusInput{
		AssignmentID: in.AssignmentID,
		Date:         in.Date,
		Hour:         in.Hour,
		Minute:       in.Minute,
		Status:       doselog.StatusSnoozed,
		SnoozeUntil:  &until,
	})
}

// syncSnoozeLocked mantiene a lo sumo un trigger de snooze vivo por toma:
// cancela el anterior si cambió y agenda el nuevo si corresponde.
func (s *Session) syncSnoozeLocked(ctx context.Context, a household.Assignment, key doselog.Key, prev *doselog.Entry, cur doselog.Entry) {
	var prevID, curID string
	if prev != nil && prev.Status == doselog.StatusSnoozed && prev.SnoozeUntil != nil {
		prevID = reminders.SnoozeID(a.ID, key.DateKey, key.Hour, key.Minute, *prev.SnoozeUntil)
	}
	if cur.Status == doselog.StatusSnoozed && cur.SnoozeUntil != nil {
		curID = reminders.SnoozeID(a.ID, key.DateKey, key.Hour, key.Minute, *cur.SnoozeUntil)
	}

	if prevID != "" && prevID != curID {
		if err := s.notifier.Cancel(ctx, prevID); err != nil {
			s.notifyFailed("cancel", err)
		}
	}
	// una asignación inactiva no tiene tomas visibles: el snooze queda en el log sin trigger
	if curID == "" || curID == prevID || !a.IsActive {
		return
	}
	s.scheduleSnoozeLocked(ctx, a, key, *cur.SnoozeUntil)
}

func (s *Session) scheduleSnoozeLocked(ctx context.Context, a household.Assignment, key doselog.Key, until time.Time) {
	member, okMember := s.memberLocked(a.MemberID)
	med, okMed := s.medicationLocked(a.MedicationID)
	if !okMember || !okMed {
		s.log.Warn("snooze trigger skipped: dangling assignment", map[string]any{"assignment_id": a.ID})
		return
	}

	dose := doses.ResolvedDose{
		DateKey:    key.DateKey,
		Assignment: cloneAssignment(a),
		Member:     member,
		Medication: med,
		Hour:       key.Hour,
		Minute:     key.Minute,
	}
	if err := s.notifier.ScheduleOnce(ctx, s.triggers.Snooze(dose, until)); err != nil {
		s.notifyFailed("schedule_once", err)
	}
}

// snoozeLive indica si la entrada pospuesta tiene que tener trigger para a.
func snoozeLive(a household.Assignment, e doselog.Entry) bool {
	return a.IsActive &&
		e.Status == doselog.StatusSnoozed && e.SnoozeUntil != nil &&
		scheduleHasTime(a.Schedule, household.TimeOfDay{Hour: e.Hour, Minute: e.Minute})
}

// resyncSnoozesLocked ajusta los triggers de snooze de una asignación después de
// desactivarla, reactivarla, cambiarle la pauta o borrarla (after == nil).
// Los que dejan de aplicar se cancelan; los que vuelven a aplicar y no vencieron se reagendan.
func (s *Session) resyncSnoozesLocked(ctx context.Context, before household.Assignment, after *household.Assignment) {
	now := s.now()
	for _, e := range s.doseLog.Entries() {
		if e.AssignmentID != before.ID || e.Status != doselog.StatusSnoozed || e.SnoozeUntil == nil {
			continue
		}
		wasLive := snoozeLive(before, e)
		isLive := after != nil && snoozeLive(*after, e)

		switch {
		case wasLive && !isLive:
			id := reminders.SnoozeID(before.ID, e.DateKey, e.Hour, e.Minute, *e.SnoozeUntil)
			if err := s.notifier.Cancel(ctx, id); err != nil {
				s.notifyFailed("cancel", err)
			}
		case !wasLive && isLive && e.SnoozeUntil.After(now):
			s.scheduleSnoozeLocked(ctx, *after, e.Key(), *e.SnoozeUntil)
		}
	}
}

func scheduleHasTime(sched household.Schedule, t household.TimeOfDay) bool {
	for _, x := range sched.Times {
		if x == t {
			return true
		}
	}
	return false
}
