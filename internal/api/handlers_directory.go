package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/directory"
)

func createSpecializationHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SpecializationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		sp, err := svc.CreateSpecialization(r.Context(), req.Name, req.Description)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSpecializationResponse(sp))
	}
}

func listSpecializationsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			specs []directory.Specialization
			err   error
		)

		if q := r.URL.Query().Get("q"); q != "" {
			specs, err = svc.SearchSpecializations(r.Context(), q)
		} else {
			specs, err = svc.ListSpecializations(r.Context())
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]SpecializationResponse, 0, len(specs))
		for i := range specs {
			resp = append(resp, toSpecializationResponse(&specs[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return
		}
		specializationID, err := uuid.Parse(req.SpecializationID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_specialization_id", "specialization_id must be a valid UUID")
			return
		}

		doc, err := svc.CreateDoctor(r.Context(), &directory.Doctor{
			UserID:           userID,
			SpecializationID: specializationID,
			Name:             req.Name,
			LicenseNumber:    req.LicenseNumber,
			Qualification:    req.Qualification,
			ExperienceYears:  req.ExperienceYears,
			ContactNumber:    req.ContactNumber,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(doc))
	}
}

func updateDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		existing, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		specializationID, err := uuid.Parse(req.SpecializationID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_specialization_id", "specialization_id must be a valid UUID")
			return
		}

		doc, err := svc.UpdateDoctor(r.Context(), &directory.Doctor{
			ID:               id,
			UserID:           existing.UserID,
			SpecializationID: specializationID,
			Name:             req.Name,
			LicenseNumber:    req.LicenseNumber,
			Qualification:    req.Qualification,
			ExperienceYears:  req.ExperienceYears,
			ContactNumber:    req.ContactNumber,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(doc))
	}
}

func deleteDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteDoctor(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getDoctorHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		doc, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(doc))
	}
}

func listDoctorsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			docs []directory.Doctor
			err  error
		)

		q := r.URL.Query()
		switch {
		case q.Get("q") != "":
			docs, err = svc.SearchDoctors(r.Context(), q.Get("q"))
		case q.Get("specialization_id") != "":
			var specID uuid.UUID
			specID, err = uuid.Parse(q.Get("specialization_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_specialization_id", "specialization_id must be a valid UUID")
				return
			}
			docs, err = svc.ListDoctorsBySpecialization(r.Context(), specID)
		default:
			docs, err = svc.ListDoctors(r.Context())
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(docs))
		for i := range docs {
			resp = append(resp, toDoctorResponse(&docs[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return
		}

		p, err := patientFromRequest(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be YYYY-MM-DD")
			return
		}
		p.UserID = userID

		created, err := svc.CreatePatient(r.Context(), p)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(created))
	}
}

func updatePatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		existing, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		p, err := patientFromRequest(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be YYYY-MM-DD")
			return
		}
		p.ID = id
		p.UserID = existing.UserID

		updated, err := svc.UpdatePatient(r.Context(), p)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(updated))
	}
}

func getPatientHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		p, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func listPatientsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			patients []directory.Patient
			err      error
		)

		if q := r.URL.Query().Get("q"); q != "" {
			patients, err = svc.SearchPatients(r.Context(), q)
		} else {
			patients, err = svc.ListPatients(r.Context())
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			resp = append(resp, toPatientResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func patientFromRequest(req *PatientRequest) (*directory.Patient, error) {
	p := &directory.Patient{
		Name:             req.Name,
		Gender:           req.Gender,
		ContactNumber:    req.ContactNumber,
		Address:          req.Address,
		BloodGroup:       req.BloodGroup,
		EmergencyContact: req.EmergencyContact,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		p.DateOfBirth = &dob
	}

	return p, nil
}
