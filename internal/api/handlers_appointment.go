package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
)

func callerPatient(r *http.Request, dir *directory.Service) (*directory.Patient, error) {
	claims := GetClaims(r.Context())
	return dir.GetPatientByUser(r.Context(), claims.UserID)
}

func bookAppointmentHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient, err := callerPatient(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		if _, err := dir.GetDoctor(r.Context(), doctorID); err != nil {
			writeDomainError(w, err)
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		t, err := availability.ParseTimeOfDay(req.Time)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}

		appt, err := svc.BookAppointment(r.Context(), patient.ID, doctorID, date, t)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

// cancelOwnAppointmentHandler lets a patient cancel their own booking.
func cancelOwnAppointmentHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient, err := callerPatient(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		cancelAppointment(w, r, svc, func(a *appointment.Appointment) bool {
			return a.PatientID == patient.ID
		})
	}
}

// cancelDoctorAppointmentHandler lets a doctor cancel one of their own
// appointments.
func cancelDoctorAppointmentHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		cancelAppointment(w, r, svc, func(a *appointment.Appointment) bool {
			return a.DoctorID == doc.ID
		})
	}
}

func cancelAppointment(w http.ResponseWriter, r *http.Request, svc *appointment.Service, owns func(*appointment.Appointment) bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return
	}

	appt, err := svc.GetAppointment(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !owns(appt) {
		writeError(w, http.StatusForbidden, "forbidden", "appointment belongs to someone else")
		return
	}

	var req CancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	updated, err := svc.CancelAppointment(r.Context(), id, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
}

func myAppointmentsHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient, err := callerPatient(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		appts, err := svc.ListByPatient(r.Context(), patient.ID, filterFromQuery(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeAppointments(w, appts)
	}
}

func doctorAppointmentsHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		appts, err := svc.ListByDoctor(r.Context(), doc.ID, filterFromQuery(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeAppointments(w, appts)
	}
}

// adminAppointmentsHandler lists appointments across the whole hospital for
// one doctor or one patient.
func adminAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := filterFromQuery(r)

		switch {
		case q.Get("doctor_id") != "":
			doctorID, err := uuid.Parse(q.Get("doctor_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
				return
			}
			appts, err := svc.ListByDoctor(r.Context(), doctorID, f)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeAppointments(w, appts)

		case q.Get("patient_id") != "":
			patientID, err := uuid.Parse(q.Get("patient_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
				return
			}
			appts, err := svc.ListByPatient(r.Context(), patientID, f)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeAppointments(w, appts)

		default:
			writeError(w, http.StatusBadRequest, "missing_filter", "doctor_id or patient_id is required")
		}
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func createTreatmentHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if appt.DoctorID != doc.ID {
			writeError(w, http.StatusForbidden, "forbidden", "appointment belongs to another doctor")
			return
		}

		var req CreateTreatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		tr, err := svc.CreateTreatment(r.Context(), id, req.Diagnosis, req.Prescription, req.Notes)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTreatmentResponse(tr))
	}
}

func updateTreatmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_treatment_id", "id must be a valid UUID")
			return
		}

		var req UpdateTreatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		tr, err := svc.UpdateTreatment(r.Context(), id, req.Diagnosis, req.Prescription, req.Notes)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTreatmentResponse(tr))
	}
}

func myTreatmentsHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient, err := callerPatient(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		treatments, err := svc.TreatmentHistoryByPatient(r.Context(), patient.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeTreatments(w, treatments)
	}
}

func doctorTreatmentsHandler(svc *appointment.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if q := r.URL.Query().Get("diagnosis"); q != "" {
			treatments, err := svc.SearchTreatments(r.Context(), q)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeTreatments(w, treatments)
			return
		}

		treatments, err := svc.TreatmentsByDoctor(r.Context(), doc.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeTreatments(w, treatments)
	}
}

// patientHistoryHandler gives doctors a patient's full treatment history.
func patientHistoryHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		treatments, err := svc.TreatmentHistoryByPatient(r.Context(), patientID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeTreatments(w, treatments)
	}
}

func filterFromQuery(r *http.Request) appointment.ListFilter {
	var f appointment.ListFilter

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := appointment.Status(v)
		f.Status = &status
	}
	if v := q.Get("from"); v != "" {
		if d, err := time.Parse(dateLayout, v); err == nil {
			f.FromDate = &d
		}
	}
	return f
}

func writeAppointments(w http.ResponseWriter, appts []appointment.Appointment) {
	resp := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, toAppointmentResponse(&appts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTreatments(w http.ResponseWriter, treatments []appointment.Treatment) {
	resp := make([]TreatmentResponse, 0, len(treatments))
	for i := range treatments {
		resp = append(resp, toTreatmentResponse(&treatments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
