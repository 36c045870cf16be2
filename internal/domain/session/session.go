package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/doses"
	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/domain/reminders"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/platform/metrics"
	"medication-reminder/internal/ports/notify"
	"medication-reminder/internal/ports/persistence"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Options configura una sesión. Store es obligatorio; el resto tiene defaults.
type Options struct {
	Store    persistence.Store
	Notifier notify.Notifier
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Location *time.Location

	// Título de las notificaciones; vacío => reminders.DefaultTitle.
	Title string
}

// Session es el dueño único del Entity Store y del Dose Log de una ubicación de
// almacenamiento. Carga al abrir y guarda el snapshot completo en cada mutación.
// Todas las operaciones se serializan con un mutex.
type Session struct {
	mu sync.Mutex

	store    persistence.Store
	notifier notify.Notifier
	log      logger.Logger
	metrics  *metrics.Metrics
	loc      *time.Location
	triggers reminders.Builder

	now   func() time.Time
	newID func() string

	members     []household.FamilyMember
	medications []household.Medication
	assignments []household.Assignment
	doseLog     *doselog.Log

	lastSaveErr error
}

// Open carga el snapshot. Si no existe o está corrupto arranca vacío y guarda uno nuevo;
// ese caso nunca se devuelve como error.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("session: store required")
	}
	s := newSession(opts)

	snap, err := opts.Store.Load(ctx)
	switch {
	case err == nil:
		s.importState(snap)
		if n := s.pruneOrphanLogs(); n > 0 {
			s.log.Info("pruned orphan dose log entries", map[string]any{"removed": n})
			s.saveLocked(ctx)
		}
	case errors.Is(err, persistence.ErrNotFound):
		s.log.Info("no snapshot found, starting empty", nil)
		s.saveLocked(ctx)
	default:
		s.log.Warn("snapshot unreadable, starting empty", map[string]any{"err": err})
		s.saveLocked(ctx)
	}

	s.rescheduleLocked(ctx)
	return s, nil
}

func newSession(opts Options) *Session {
	n := opts.Notifier
	if n == nil {
		n = notify.Multi{}
	}
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		store:    opts.Store,
		notifier: n,
		log:      l.With(map[string]any{"component": "session"}),
		metrics:  opts.Metrics,
		loc:      loc,
		triggers: reminders.NewBuilder(opts.Title, loc),
		now:      time.Now,
		newID:    uuid.NewString,
		doseLog:  doselog.NewLog(nil),
	}
}

func (s *Session) Location() *time.Location { return s.loc }

// LastSaveError devuelve el error del último guardado (nil si fue durable).
func (s *Session) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *Session) Members() []household.FamilyMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]household.FamilyMember{}, s.members...)
}

func (s *Session) Medications() []household.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]household.Medication, len(s.medications))
	for i, m := range s.medications {
		out[i] = cloneMedication(m)
	}
	return out
}

func (s *Session) Assignments() []household.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]household.Assignment, len(s.assignments))
	for i, a := range s.assignments {
		out[i] = cloneAssignment(a)
	}
	return out
}

// DoseLog devuelve las entradas de un día (o todas si day == "").
func (s *Session) DoseLog(day doselog.DateKey) []doselog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day == "" {
		return s.doseLog.Entries()
	}
	return s.doseLog.ForDay(day)
}

// Resolve devuelve las tomas del día calendario local de date.
func (s *Session) Resolve(date time.Time) []doses.ResolvedDose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(date)
}

// NextDose devuelve la próxima toma abierta de hoy.
func (s *Session) NextDose() (doses.ResolvedDose, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return doses.Next(s.resolveLocked(s.now()))
}

// Reschedule recalcula y reemplaza todos los triggers recurrentes.
func (s *Session) Reschedule(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rescheduleLocked(ctx)
}

// RunReschedule llama a Reschedule cada every hasta que ctx termine, para que las
// pautas con fecha de inicio o fin entren y salgan del conjunto recurrente.
func (s *Session) RunReschedule(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Reschedule(ctx)
		}
	}
}

func (s *Session) resolveLocked(date time.Time) []doses.ResolvedDose {
	// copias: el resultado no debe compartir slices con el estado interno
	in := doses.Input{
		Members:     append([]household.FamilyMember{}, s.members...),
		Medications: make([]household.Medication, len(s.medications)),
		Assignments: make([]household.Assignment, len(s.assignments)),
		Log:         s.doseLog,
	}
	for i, m := range s.medications {
		in.Medications[i] = cloneMedication(m)
	}
	for i, a := range s.assignments {
		in.Assignments[i] = cloneAssignment(a)
	}
	return doses.Resolve(in, date, s.loc)
}

func (s *Session) importState(snap persistence.Snapshot) {
	snap = snap.Normalize()
	s.members = append([]household.FamilyMember{}, snap.Members...)
	s.medications = make([]household.Medication, len(snap.Medications))
	for i, m := range snap.Medications {
		s.medications[i] = cloneMedication(m)
	}
	s.assignments = make([]household.Assignment, len(snap.Assignments))
	for i, a := range snap.Assignments {
		s.assignments[i] = cloneAssignment(a)
	}
	s.doseLog = doselog.NewLog(snap.DoseLogs)
}

func (s *Session) snapshotLocked() persistence.Snapshot {
	snap := persistence.Snapshot{
		Members:     append([]household.FamilyMember{}, s.members...),
		Medications: make([]household.Medication, len(s.medications)),
		Assignments: make([]household.Assignment, len(s.assignments)),
		DoseLogs:    s.doseLog.Entries(),
	}
	for i, m := range s.medications {
		snap.Medications[i] = cloneMedication(m)
	}
	for i, a := range s.assignments {
		snap.Assignments[i] = cloneAssignment(a)
	}
	return snap.Normalize()
}

// Snapshot devuelve una copia del estado completo.
func (s *Session) Snapshot() persistence.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// saveLocked guarda el snapshot. Un fallo no revierte nada: el estado en memoria
// sigue siendo la fuente de verdad y el fallo queda como warning.
func (s *Session) saveLocked(ctx context.Context) {
	err := s.store.Save(ctx, s.snapshotLocked())
	s.lastSaveErr = err
	if err == nil {
		return
	}
	s.log.Warn("snapshot save failed, keeping in-memory state", map[string]any{"err": err})
	if s.metrics != nil {
		s.metrics.SaveFailures.Inc()
	}
}

func (s *Session) rescheduleLocked(ctx context.Context) {
	items := s.triggers.Recurring(s.members, s.medications, s.assignments, s.now())
	if s.metrics != nil {
		s.metrics.RecurringTriggers.Set(float64(len(items)))
	}
	if err := s.notifier.ReplaceRecurring(ctx, items); err != nil {
		s.notifyFailed("replace_recurring", err)
		return
	}
	s.log.Debug("recurring triggers replaced", map[string]any{"count": len(items)})
}

func (s *Session) notifyFailed(op string, err error) {
	s.log.Warn("notifier call failed", map[string]any{"op": op, "err": err})
	if s.metrics != nil {
		s.metrics.NotifyFailures.WithLabelValues(op).Inc()
	}
}

// pruneOrphanLogs descarta entradas cuya asignación ya no existe.
func (s *Session) pruneOrphanLogs() int {
	known := make(map[string]struct{}, len(s.assignments))
	for _, a := range s.assignments {
		known[a.ID] = struct{}{}
	}
	return s.doseLog.RemoveWhere(func(e doselog.Entry) bool {
		_, ok := known[e.AssignmentID]
		return !ok
	})
}

func cloneMedication(m household.Medication) household.Medication {
	if m.Notes != nil {
		n := *m.Notes
		m.Notes = &n
	}
	return m
}

func cloneAssignment(a household.Assignment) household.Assignment {
	a.Schedule.Times = append([]household.TimeOfDay(nil), a.Schedule.Times...)
	if a.Schedule.Weekdays != nil {
		a.Schedule.Weekdays = append([]time.Weekday(nil), a.Schedule.Weekdays...)
	}
	if a.Schedule.EndDate != nil {
		e := *a.Schedule.EndDate
		a.Schedule.EndDate = &e
	}
	return a
}
