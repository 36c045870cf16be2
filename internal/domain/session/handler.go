package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-reminder/internal/domain/doselog"
	"medication-reminder/internal/domain/household"
)

// PersistenceWarningHeader se agrega cuando la mutación quedó solo en memoria.
const PersistenceWarningHeader = "X-Persistence-Warning"

func RegisterRoutes(r chi.Router, s *Session) {
	r.Route("/members", func(mr chi.Router) {
		mr.Get("/", listMembersHandler(s))
		mr.Post("/", createMemberHandler(s))
		mr.Delete("/{memberID}", deleteMemberHandler(s))
	})

	r.Route("/medications", func(mr chi.Router) {
		mr.Get("/", listMedicationsHandler(s))
		mr.Post("/", createMedicationHandler(s))
		mr.Delete("/{medicationID}", deleteMedicationHandler(s))
	})

	r.Route("/assignments", func(ar chi.Router) {
		ar.Get("/", listAssignmentsHandler(s))
		ar.Post("/", createAssignmentHandler(s))
		ar.Patch("/{assignmentID}", updateAssignmentHandler(s))
		ar.Delete("/{assignmentID}", deleteAssignmentHandler(s))
	})

	r.Route("/doses", func(dr chi.Router) {
		dr.Get("/", listDosesHandler(s))
		dr.Get("/next", nextDoseHandler(s))
		dr.Put("/{assignmentID}/{time}/status", setStatusHandler(s))
		dr.Post("/{assignmentID}/{time}/snooze", snoozeHandler(s))
		dr.Get("/snooze-options", snoozeOptionsHandler())
	})

	r.Get("/export", exportHandler(s))
}

type createMemberRequest struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

type createMedicationRequest struct {
	Name   string  `json:"name"`
	Dosage string  `json:"dosage"`
	Notes  *string `json:"notes"`
}

// scheduleRequest usa fechas YYYY-MM-DD y horas HH:MM.
type scheduleRequest struct {
	Frequency household.Frequency `json:"frequency"`
	Times     []string            `json:"times"`
	StartDate string              `json:"start_date"`
	EndDate   *string             `json:"end_date"`
	Weekdays  []int               `json:"weekdays"` // 0=domingo
}

type scheduleResponse struct {
	Frequency household.Frequency `json:"frequency"`
	Times     []string            `json:"times"`
	StartDate string              `json:"start_date"`
	EndDate   *string             `json:"end_date,omitempty"`
	Weekdays  []int               `json:"weekdays,omitempty"`
}

type createAssignmentRequest struct {
	MemberID     string          `json:"member_id"`
	MedicationID string          `json:"medication_id"`
	Schedule     scheduleRequest `json:"schedule"`
	IsActive     *bool           `json:"is_active"`
}

type updateAssignmentRequest struct {
	// nil = no tocar
	Schedule *scheduleRequest `json:"schedule"`
	IsActive *bool            `json:"is_active"`
}

type assignmentResponse struct {
	ID           string           `json:"id"`
	MemberID     string           `json:"member_id"`
	MedicationID string           `json:"medication_id"`
	Schedule     scheduleResponse `json:"schedule"`
	IsActive     bool             `json:"is_active"`
}

// listMembersHandler godoc
// @Summary Listar miembros del hogar
// @Tags members
// @Produce json
// @Success 200 {array} household.FamilyMember
// @Router /members [get]
func listMembersHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Members())
	}
}

// createMemberHandler godoc
// @Summary Crear miembro
// @Tags members
// @Accept json
// @Produce json
// @Param payload body createMemberRequest true "Miembro"
// @Success 201 {object} household.FamilyMember
// @Failure 400 {string} string "invalid json / name required"
// @Router /members [post]
func createMemberHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := s.AddMember(r.Context(), MemberInput{Name: req.Name, Relation: req.Relation})
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusCreated, m)
	}
}

// deleteMemberHandler godoc
// @Summary Eliminar miembro
// @Description Elimina en cascada sus asignaciones y el registro de tomas de éstas.
// @Tags members
// @Param memberID path string true "ID del miembro"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /members/{memberID} [delete]
func deleteMemberHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteMember(r.Context(), chi.URLParam(r, "memberID")); err != nil {
			writeError(w, err)
			return
		}
		persistenceWarning(w, s)
		w.WriteHeader(http.StatusNoContent)
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Tags medications
// @Produce json
// @Success 200 {array} household.Medication
// @Router /medications [get]
func listMedicationsHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Medications())
	}
}

// createMedicationHandler godoc
// @Summary Crear medicamento
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Medicamento"
// @Success 201 {object} household.Medication
// @Failure 400 {string} string "invalid json / name required"
// @Router /medications [post]
func createMedicationHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := s.AddMedication(r.Context(), MedicationInput{Name: req.Name, Dosage: req.Dosage, Notes: req.Notes})
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusCreated, m)
	}
}

// deleteMedicationHandler godoc
// @Summary Eliminar medicamento
// @Description Elimina en cascada las asignaciones que lo usan.
// @Tags medications
// @Param medicationID path string true "ID del medicamento"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteMedication(r.Context(), chi.URLParam(r, "medicationID")); err != nil {
			writeError(w, err)
			return
		}
		persistenceWarning(w, s)
		w.WriteHeader(http.StatusNoContent)
	}
}

// listAssignmentsHandler godoc
// @Summary Listar asignaciones
// @Tags assignments
// @Produce json
// @Success 200 {array} assignmentResponse
// @Router /assignments [get]
func listAssignmentsHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := s.Assignments()
		out := make([]assignmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAssignmentResponse(a, s.Location()))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createAssignmentHandler godoc
// @Summary Asignar medicamento a un miembro
// @Description start_date vacío = hoy. Horas en formato HH:MM; weekdays 0=domingo (solo weekly).
// @Tags assignments
// @Accept json
// @Produce json
// @Param payload body createAssignmentRequest true "Asignación"
// @Success 201 {object} assignmentResponse
// @Failure 400 {string} string "invalid json / invalid schedule"
// @Failure 404 {string} string "member or medication not found"
// @Router /assignments [post]
func createAssignmentHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAssignmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sched, err := req.Schedule.toSchedule(s.Location())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := s.AddAssignment(r.Context(), AssignmentInput{
			MemberID:     req.MemberID,
			MedicationID: req.MedicationID,
			Schedule:     sched,
			IsActive:     req.IsActive,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusCreated, toAssignmentResponse(a, s.Location()))
	}
}

// updateAssignmentHandler godoc
// @Summary Modificar pauta o estado activo
// @Description Desactivar conserva el registro de tomas; al reactivar vuelve a aplicarse.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "ID de la asignación"
// @Param payload body updateAssignmentRequest true "Campos a modificar"
// @Success 200 {object} assignmentResponse
// @Failure 400 {string} string "invalid json / invalid schedule"
// @Failure 404 {string} string "not found"
// @Router /assignments/{assignmentID} [patch]
func updateAssignmentHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAssignmentRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var patch AssignmentPatch
		patch.IsActive = req.IsActive
		if req.Schedule != nil {
			sched, err := req.Schedule.toSchedule(s.Location())
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			patch.Schedule = &sched
		}

		a, err := s.UpdateAssignment(r.Context(), chi.URLParam(r, "assignmentID"), patch)
		if err != nil {
			writeError(w, err)
			return
		}

		persistenceWarning(w, s)
		writeJSON(w, http.StatusOK, toAssignmentResponse(a, s.Location()))
	}
}

// deleteAssignmentHandler godoc
// @Summary Eliminar asignación
// @Description Borra también sus entradas del registro de tomas.
// @Tags assignments
// @Param assignmentID path string true "ID de la asignación"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /assignments/{assignmentID} [delete]
func deleteAssignmentHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteAssignment(r.Context(), chi.URLParam(r, "assignmentID")); err != nil {
			writeError(w, err)
			return
		}
		persistenceWarning(w, s)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req scheduleRequest) toSchedule(loc *time.Location) (household.Schedule, error) {
	sched := household.Schedule{Frequency: req.Frequency}

	for _, raw := range req.Times {
		t, err := household.ParseTimeOfDay(raw)
		if err != nil {
			return household.Schedule{}, err
		}
		sched.Times = append(sched.Times, t)
	}

	if strings.TrimSpace(req.StartDate) != "" {
		d, err := doselog.ParseDateKey(req.StartDate, loc)
		if err != nil {
			return household.Schedule{}, errors.New("start_date must be YYYY-MM-DD")
		}
		sched.StartDate = d
	}
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		d, err := doselog.ParseDateKey(*req.EndDate, loc)
		if err != nil {
			return household.Schedule{}, errors.New("end_date must be YYYY-MM-DD")
		}
		sched.EndDate = &d
	}

	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return household.Schedule{}, errors.New("weekdays must be 0..6")
		}
		sched.Weekdays = append(sched.Weekdays, time.Weekday(wd))
	}
	return sched, nil
}

func toAssignmentResponse(a household.Assignment, loc *time.Location) assignmentResponse {
	sr := scheduleResponse{
		Frequency: a.Schedule.Frequency,
		Times:     make([]string, 0, len(a.Schedule.Times)),
	}
	for _, t := range a.Schedule.Times {
		sr.Times = append(sr.Times, t.String())
	}
	if !a.Schedule.StartDate.IsZero() {
		sr.StartDate = string(doselog.DateKeyOf(a.Schedule.StartDate, loc))
	}
	if a.Schedule.EndDate != nil {
		e := string(doselog.DateKeyOf(*a.Schedule.EndDate, loc))
		sr.EndDate = &e
	}
	for _, wd := range a.Schedule.Weekdays {
		sr.Weekdays = append(sr.Weekdays, int(wd))
	}

	return assignmentResponse{
		ID:           a.ID,
		MemberID:     a.MemberID,
		MedicationID: a.MedicationID,
		Schedule:     sr,
		IsActive:     a.IsActive,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// persistenceWarning debe llamarse antes de escribir el status.
// exportHandler godoc
// @Summary Exportar datos
// @Description Snapshot completo (miembros, medicamentos, asignaciones y registro de tomas), mismo formato que el archivo de datos.
// @Tags export
// @Produce json
// @Success 200 {object} object
// @Router /export [get]
func exportHandler(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="medication_data.json"`)
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

func persistenceWarning(w http.ResponseWriter, s *Session) {
	if err := s.LastSaveError(); err != nil {
		w.Header().Set(PersistenceWarningHeader, "changes not saved: "+err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
