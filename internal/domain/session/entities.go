package session

import (
	"context"
	"strings"
	"time"

	"medication-reminder/internal/domain/household"
)

type MemberInput struct {
	Name     string
	Relation string
}

func (s *Session) AddMember(ctx context.Context, in MemberInput) (household.FamilyMember, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return household.FamilyMember{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := household.FamilyMember{
		ID:       s.newID(),
		Name:     name,
		Relation: strings.TrimSpace(in.Relation),
	}
	s.members = append(s.members, m)

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return m, nil
}

// DeleteMember elimina el miembro y en cascada sus asignaciones (y el log de éstas).
func (s *Session) DeleteMember(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)

	removed := s.removeAssignmentsLocked(ctx, func(a household.Assignment) bool { return a.MemberID == id })
	s.log.Info("member deleted", map[string]any{"member_id": id, "assignments_removed": removed})

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return nil
}

type MedicationInput struct {
	Name   string
	Dosage string
	Notes  *string
}

func (s *Session) AddMedication(ctx context.Context, in MedicationInput) (household.Medication, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return household.Medication{}, ErrInvalidInput
	}

	var notes *string
	if in.Notes != nil {
		if n := strings.TrimSpace(*in.Notes); n != "" {
			notes = &n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := household.Medication{
		ID:     s.newID(),
		Name:   name,
		Dosage: strings.TrimSpace(in.Dosage),
		Notes:  notes,
	}
	s.medications = append(s.medications, m)

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return cloneMedication(m), nil
}

// DeleteMedication elimina el medicamento y en cascada sus asignaciones.
func (s *Session) DeleteMedication(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.medications {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.medications = append(s.medications[:idx], s.medications[idx+1:]...)

	removed := s.removeAssignmentsLocked(ctx, func(a household.Assignment) bool { return a.MedicationID == id })
	s.log.Info("medication deleted", map[string]any{"medication_id": id, "assignments_removed": removed})

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return nil
}

type AssignmentInput struct {
	MemberID     string
	MedicationID string
	Schedule     household.Schedule

	// nil => activa
	IsActive *bool
}

func (s *Session) AddAssignment(ctx context.Context, in AssignmentInput) (household.Assignment, error) {
	memberID := strings.TrimSpace(in.MemberID)
	medID := strings.TrimSpace(in.MedicationID)
	if memberID == "" || medID == "" {
		return household.Assignment{}, ErrInvalidInput
	}

	sched, err := in.Schedule.Normalize()
	if err != nil {
		return household.Assignment{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMemberLocked(memberID) || !s.hasMedicationLocked(medID) {
		return household.Assignment{}, ErrNotFound
	}

	if sched.StartDate.IsZero() {
		sched.StartDate = startOfDay(s.now(), s.loc)
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	a := household.Assignment{
		ID:           s.newID(),
		MemberID:     memberID,
		MedicationID: medID,
		Schedule:     sched,
		IsActive:     active,
	}
	s.assignments = append(s.assignments, a)

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return cloneAssignment(a), nil
}

// AssignmentPatch: nil = no tocar.
type AssignmentPatch struct {
	Schedule *household.Schedule
	IsActive *bool
}

// UpdateAssignment cambia pauta y/o estado activo. Desactivar no borra el log:
// las entradas reaparecen al reactivar. Los snoozes pendientes se cancelan al
// desactivar (o al quitar su hora de la pauta) y se reagendan al reactivar.
func (s *Session) UpdateAssignment(ctx context.Context, id string, p AssignmentPatch) (household.Assignment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return household.Assignment{}, ErrInvalidInput
	}

	var sched *household.Schedule
	if p.Schedule != nil {
		n, err := p.Schedule.Normalize()
		if err != nil {
			return household.Assignment{}, ErrInvalidInput
		}
		sched = &n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndexLocked(id)
	if idx < 0 {
		return household.Assignment{}, ErrNotFound
	}

	before := cloneAssignment(s.assignments[idx])
	a := s.assignments[idx]
	if sched != nil {
		if sched.StartDate.IsZero() {
			sched.StartDate = a.Schedule.StartDate
		}
		a.Schedule = *sched
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	s.assignments[idx] = a

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	s.resyncSnoozesLocked(ctx, before, &a)
	return cloneAssignment(a), nil
}

// DeleteAssignment elimina la asignación y sus entradas del Dose Log.
func (s *Session) DeleteAssignment(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeAssignmentsLocked(ctx, func(a household.Assignment) bool { return a.ID == id }) == 0 {
		return ErrNotFound
	}

	s.saveLocked(ctx)
	s.rescheduleLocked(ctx)
	return nil
}

// removeAssignmentsLocked borra las asignaciones que cumplen drop junto con sus
// entradas del log, cancelando antes los snoozes vivos.
func (s *Session) removeAssignmentsLocked(ctx context.Context, drop func(household.Assignment) bool) int {
	kept := s.assignments[:0]
	removed := 0
	for _, a := range s.assignments {
		if drop(a) {
			removed++
			s.resyncSnoozesLocked(ctx, a, nil)
			s.doseLog.RemoveAssignment(a.ID)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(s.assignments); i++ {
		s.assignments[i] = household.Assignment{}
	}
	s.assignments = kept
	return removed
}

func (s *Session) assignmentIndexLocked(id string) int {
	for i, a := range s.assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) hasMemberLocked(id string) bool {
	for _, m := range s.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) hasMedicationLocked(id string) bool {
	for _, m := range s.medications {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) memberLocked(id string) (household.FamilyMember, bool) {
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return household.FamilyMember{}, false
}

func (s *Session) medicationLocked(id string) (household.Medication, bool) {
	for _, m := range s.medications {
		if m.ID == id {
			return cloneMedication(m), true
		}
	}
	return household.Medication{}, false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
