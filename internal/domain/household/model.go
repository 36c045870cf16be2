package household

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FamilyMember es una persona del hogar que recibe medicación.
type FamilyMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Medication describe un medicamento. Dosage es texto libre ("500 mg", "2 gotas").
type Medication struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Dosage string  `json:"dosage"`
	Notes  *string `json:"notes,omitempty"`
}

// Frequency define cómo se repite una pauta.
// @Enum daily, weekly, customTimes
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyCustomTimes Frequency = "customTimes"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustomTimes:
		return true
	default:
		return false
	}
}

// TimeOfDay es una hora de reloj local (sin fecha).
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay interpreta "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	t := TimeOfDay{Hour: h, Minute: m}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}

// Schedule es la definición de recurrencia de una asignación.
type Schedule struct {
	Frequency Frequency   `json:"frequency"`
	Times     []TimeOfDay `json:"times"`
	StartDate time.Time   `json:"start_date"`
	EndDate   *time.Time  `json:"end_date,omitempty"`

	// Solo para weekly. Vacío => el día de la semana de StartDate.
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
}

// Assignment vincula un medicamento con un miembro y una pauta.
type Assignment struct {
	ID           string   `json:"id"`
	MemberID     string   `json:"member_id"`
	MedicationID string   `json:"medication_id"`
	Schedule     Schedule `json:"schedule"`
	IsActive     bool     `json:"is_active"`
}
