package household

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// NormalizeTimes valida, deduplica y ordena las horas de una pauta.
// Devuelve ErrInvalidSchedule si queda vacía o alguna hora está fuera de rango.
func NormalizeTimes(in []TimeOfDay) ([]TimeOfDay, error) {
	seen := map[TimeOfDay]struct{}{}
	out := make([]TimeOfDay, 0, len(in))

	for _, t := range in {
		if !t.Valid() {
			return nil, ErrInvalidSchedule
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, ErrInvalidSchedule
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Minute < out[j].Minute
	})
	return out, nil
}

// Normalize devuelve una copia validada de la pauta.
func (s Schedule) Normalize() (Schedule, error) {
	if s.Frequency == "" {
		s.Frequency = FrequencyDaily
	}
	if !s.Frequency.Valid() {
		return Schedule{}, ErrInvalidSchedule
	}

	times, err := NormalizeTimes(s.Times)
	if err != nil {
		return Schedule{}, err
	}
	s.Times = times

	if s.EndDate != nil && !s.StartDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return Schedule{}, ErrInvalidSchedule
	}

	if s.Frequency != FrequencyWeekly {
		s.Weekdays = nil
	} else {
		days := make([]time.Weekday, 0, len(s.Weekdays))
		seen := map[time.Weekday]struct{}{}
		for _, d := range s.Weekdays {
			if d < time.Sunday || d > time.Saturday {
				return Schedule{}, ErrInvalidSchedule
			}
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		s.Weekdays = days
	}

	return s, nil
}

// OccursOn indica si la pauta genera tomas en el día calendario de date (en loc).
// StartDate y EndDate se comparan por día calendario, ambos inclusive.
func (s Schedule) OccursOn(date time.Time, loc *time.Location) bool {
	day := civilDay(date, loc)

	if !s.StartDate.IsZero() && day < civilDay(s.StartDate, loc) {
		return false
	}
	if s.EndDate != nil && day > civilDay(*s.EndDate, loc) {
		return false
	}

	if s.Frequency != FrequencyWeekly {
		return true
	}

	days := s.ActiveWeekdays(loc)
	if len(days) == 0 {
		return true
	}
	wd := date.In(orLocal(loc)).Weekday()
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

// ActiveWeekdays devuelve los días de la semana en que dispara una pauta weekly.
// Nil significa "todos los días".
func (s Schedule) ActiveWeekdays(loc *time.Location) []time.Weekday {
	if s.Frequency != FrequencyWeekly {
		return nil
	}
	if len(s.Weekdays) > 0 {
		return s.Weekdays
	}
	if s.StartDate.IsZero() {
		return nil
	}
	return []time.Weekday{s.StartDate.In(orLocal(loc)).Weekday()}
}

// StartsAfter indica si la pauta empieza después del día de date.
func (s Schedule) StartsAfter(date time.Time, loc *time.Location) bool {
	return !s.StartDate.IsZero() && civilDay(s.StartDate, loc) > civilDay(date, loc)
}

// EndedBefore indica si la pauta terminó antes del día de date.
func (s Schedule) EndedBefore(date time.Time, loc *time.Location) bool {
	return s.EndDate != nil && civilDay(*s.EndDate, loc) < civilDay(date, loc)
}

// civilDay codifica año/mes/día como entero comparable (yyyymmdd).
func civilDay(t time.Time, loc *time.Location) int {
	y, m, d := t.In(orLocal(loc)).Date()
	return y*10000 + int(m)*100 + d
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
