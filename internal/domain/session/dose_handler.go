package session

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/doses"
	"medication-reminder/internal/domain/household"
)

type doseResponse struct {
	Key          string         `json:"key"`
	Date         string         `json:"date"`
	AssignmentID string         `json:"assignment_id"`
	Member       memberSummary  `json:"member"`
	Medication   medSummary     `json:"medication"`
	Time         string         `json:"time"` // HH:MM
	ScheduledAt  time.Time      `json:"scheduled_at"`
	Status       doselog.Status `json:"status"`
	SnoozeUntil  *time.Time     `json:"snooze_until,omitempty"`
	DueAt        time.Time      `json:"due_at"`
	IsDue        bool           `json:"is_due"`
}

type memberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type medSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}

type sectionResponse struct {
	Part  doses.Part     `json:"part"`
	Doses []doseResponse `json:"doses"`
}

type dayResponse struct {
	Date     string            `json:"date"`
	Doses    []doseResponse    `json:"doses"`
	Sections []sectionResponse `json:"sections"`
}

type setStatusRequest struct {
	Date        string         `json:"date"` // YYYY-MM-DD
	Status      doselog.Status `json:"status"`
	SnoozeUntil *time.Time     `json:"snooze_until"` // RFC3339, obligatorio para snoozed
}

type snoozeRequest struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type logEntryResponse struct {
	ID           string         `json:"id"`
	Date         string         `json:"date"`
	AssignmentID string         `json:"assignment_id"`
	Time         string         `json:"time"`
	Status       doselog.Status `json:"status"`
	SnoozeUntil  *time.Time     `json:"snooze_until,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// listDosesHandler godoc
// @Summary Tomas de un día
// @Description Lista resuelta (orden por hora) y agrupada por franja. date vacío = hoy.
// @Tags doses
// @Produce json
// @Param date query string false "Día YYYY-MM-DD"
// @Success 200 {object} dayResponse
// @Failure 400 {string} string "date must be YYYY-MM-DD"
// @Router /doses [get]
func listDosesHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := s.now()
		date := now
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			d, err := doselog.ParseDateKey(raw, s.Location())
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = d
		}

		list := s.Resolve(date)
		out := dayResponse{
			Date:     string(doselog.DateKeyOf(date, s.Location())),
			Doses:    toDoseResponses(list, now),
			Sections: make([]sectionResponse, 0, 4),
		}
		for _, sec := range doses.Sections(list) {
			out.Sections = append(out.Sections, sectionResponse{Part: sec.Part, Doses: toDoseResponses(sec.Doses, now)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// nextDoseHandler godoc
// @Summary Próxima toma abierta de hoy
// @Tags doses
// @Produce json
// @Success 200 {object} doseResponse
// @Success 204 "sin tomas abiertas"
// @Router /doses/next [get]
func nextDoseHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.NextDose()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(d, s.now()))
	}
}

// setStatusHandler godoc
// @Summary Cambiar estado de una toma
// @Description Sobrescribe el estado (taken, skipped, snoozed, pending). snooze_until es obligatorio para snoozed.
// @Tags doses
// @Accept json
// @Produce json
// @Param assignmentID path string true "ID de la asignación"
// @Param time path string true "Hora programada HH:MM"
// @Param payload body setStatusRequest true "Nuevo estado"
// @Success 200 {object} logEntryResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /doses/{assignmentID}/{time}/status [put]
func setStatusHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tod, err := household.ParseTimeOfDay(chi.URLParam(r, "time"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		date, ok := parseDay(w, s, req.Date)
		if !ok {
			return
		}

		e, err := s.SetStatus(r.Context(), StatusInput{
			AssignmentID: chi.URLParam(r, "assignmentID"),
			Date:         date,
			Hour:         tod.Hour,
			Minute:       tod.Minute,
			Status:       req.Status,
			SnoozeUntil:  req.SnoozeUntil,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusOK, toLogEntryResponse(e))
	}
}

// snoozeHandler godoc
// @Summary Posponer una toma
// @Description Pospone minutes minutos desde ahora (sugeridos 10, 15, 30; máximo 1440).
// @Tags doses
// @Accept json
// @Produce json
// @Param assignmentID path string true "ID de la asignación"
// @Param time path string true "Hora programada HH:MM"
// @Param payload body snoozeRequest true "Día y minutos"
// @Success 200 {object} logEntryResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /doses/{assignmentID}/{time}/snooze [post]
func snoozeHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tod, err := household.ParseTimeOfDay(chi.URLParam(r, "time"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req snoozeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		date, ok := parseDay(w, s, req.Date)
		if !ok {
			return
		}

		e, err := s.Snooze(r.Context(), SnoozeInput{
			AssignmentID: chi.URLParam(r, "assignmentID"),
			Date:         date,
			Hour:         tod.Hour,
			Minute:       tod.Minute,
			Minutes:      req.Minutes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusOK, toLogEntryResponse(e))
	}
}

type snoozeOptionsResponse struct {
	Presets    []int `json:"presets"`
	MaxMinutes int   `json:"max_minutes"`
}

// snoozeOptionsHandler godoc
// @Summary Opciones de posponer
// @Tags doses
// @Produce json
// @Success 200 {object} snoozeOptionsResponse
// @Router /doses/snooze-options [get]
func snoozeOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, snoozeOptionsResponse{
			Presets:    append([]int(nil), SnoozePresets...),
			MaxMinutes: MaxSnoozeMinutes,
		})
	}
}

// parseDay: vacío = hoy.
func parseDay(w http.ResponseWriter, s *Session, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return s.now(), true
	}
	d, err := doselog.ParseDateKey(raw, s.Location())
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return d, true
}

func toDoseResponses(list []doses.ResolvedDose, now time.Time) []doseResponse {
	out := make([]doseResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDoseResponse(d, now))
	}
	return out
}

func toDoseResponse(d doses.ResolvedDose, now time.Time) doseResponse {
	return doseResponse{
		Key:          d.Key(),
		Date:         string(d.DateKey),
		AssignmentID: d.Assignment.ID,
		Member:       memberSummary{ID: d.Member.ID, Name: d.Member.Name},
		Medication:   medSummary{ID: d.Medication.ID, Name: d.Medication.Name, Dosage: d.Medication.Dosage},
		Time:         household.TimeOfDay{Hour: d.Hour, Minute: d.Minute}.String(),
		ScheduledAt:  d.DateTime,
		Status:       d.Status,
		SnoozeUntil:  d.SnoozeUntil,
		DueAt:        d.DueAt(),
		IsDue:        d.IsDue(now),
	}
}

func toLogEntryResponse(e doselog.Entry) logEntryResponse {
	return logEntryResponse{
		ID:           e.ID,
		Date:         string(e.DateKey),
		AssignmentID: e.AssignmentID,
		Time:         household.TimeOfDay{Hour: e.Hour, Minute: e.Minute}.String(),
		Status:       e.Status,
		SnoozeUntil:  e.SnoozeUntil,
		UpdatedAt:    e.UpdatedAt,
	}
}
