package reminders

import (
	"fmt"
	"strings"
	"time"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/doses"
	"medication-reminder/internal/domain/household"
	"medication-reminder/internal/ports/notify"
)

const DefaultTitle = "Toma de medicamento"

// Builder deriva las tuplas de notificación. No entrega nada: eso es del Notifier.
type Builder struct {
	Title string
	Loc   *time.Location
}

func NewBuilder(title string, loc *time.Location) Builder {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	if loc == nil {
		loc = time.Local
	}
	return Builder{Title: title, Loc: loc}
}

// RecurringID es determinístico por (asignación, hora, minuto) para que recalcular
// todo el conjunto sea idempotente.
func RecurringID(assignmentID string, hour, minute int) string {
	return fmt.Sprintf("assignment_%s_%d_%d", assignmentID, hour, minute)
}

// SnoozeID identifica el trigger de un solo disparo de una toma concreta
// (asignación, día, hora) pospuesta hasta fireAt.
func SnoozeID(assignmentID string, day doselog.DateKey, hour, minute int, fireAt time.Time) string {
	return fmt.Sprintf("snooze_%s_%s_%02d%02d_%d", assignmentID, day, hour, minute, fireAt.Unix())
}

func Body(member household.FamilyMember, med household.Medication) string {
	if strings.TrimSpace(med.Dosage) == "" {
		return fmt.Sprintf("%s: %s", member.Name, med.Name)
	}
	return fmt.Sprintf("%s: %s (%s)", member.Name, med.Name, med.Dosage)
}

// Recurring genera un trigger por asignación activa y hora. Se omiten asignaciones
// inactivas, que todavía no empezaron o ya terminaron respecto de now, o con
// referencias colgantes. Las que empiezan más adelante entran en un Reschedule posterior.
// Las weekly generan un trigger por día de la semana.
func (b Builder) Recurring(
	members []household.FamilyMember,
	medications []household.Medication,
	assignments []household.Assignment,
	now time.Time,
) []notify.Recurring {
	memberByID := make(map[string]household.FamilyMember, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}
	medByID := make(map[string]household.Medication, len(medications))
	for _, m := range medications {
		medByID[m.ID] = m
	}

	out := make([]notify.Recurring, 0)
	seen := map[string]struct{}{}

	for _, a := range assignments {
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
		if a.Schedule.StartsAfter(now, b.Loc) || a.Schedule.EndedBefore(now, b.Loc) {
			continue
		}

		body := Body(member, med)
		weekdays := a.Schedule.ActiveWeekdays(b.Loc)

		for _, t := range a.Schedule.Times {
			if !t.Valid() {
				continue
			}
			base := RecurringID(a.ID, t.Hour, t.Minute)

			if len(weekdays) == 0 {
				if _, dup := seen[base]; dup {
					continue
				}
				seen[base] = struct{}{}
				out = append(out, notify.Recurring{ID: base, Title: b.Title, Body: body, Hour: t.Hour, Minute: t.Minute})
				continue
			}

			for _, wd := range weekdays {
				id := fmt.Sprintf("%s_w%d", base, int(wd))
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				day := wd
				out = append(out, notify.Recurring{ID: id, Title: b.Title, Body: body, Hour: t.Hour, Minute: t.Minute, Weekday: &day})
			}
		}
	}
	return out
}

// Snooze arma el trigger de un solo disparo para una toma pospuesta.
func (b Builder) Snooze(d doses.ResolvedDose, fireAt time.Time) notify.Once {
	return notify.Once{
		ID:     SnoozeID(d.Assignment.ID, d.DateKey, d.Hour, d.Minute, fireAt),
		Title:  b.Title,
		Body:   Body(d.Member, d.Medication),
		FireAt: fireAt,
	}
}
