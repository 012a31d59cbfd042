package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
)

// callerDoctor resolves the authenticated user to their doctor profile.
func callerDoctor(r *http.Request, dir *directory.Service) (*directory.Doctor, error) {
	claims := GetClaims(r.Context())
	return dir.GetDoctorByUser(r.Context(), claims.UserID)
}

func setAvailabilityHandler(store *availability.Store, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var req SetAvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		start, err := availability.ParseTimeOfDay(req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be HH:MM")
			return
		}
		end, err := availability.ParseTimeOfDay(req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_end_time", "end_time must be HH:MM")
			return
		}

		slot, err := store.SetAvailability(r.Context(), doc.ID, date, start, end)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(slot))
	}
}

func myAvailabilityHandler(store *availability.Store, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeSlots(w, r, store, doc.ID)
	}
}

func deleteAvailabilityHandler(store *availability.Store, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := callerDoctor(r, dir)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		slotID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		if err := store.DeleteSlot(r.Context(), doc.ID, slotID); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// doctorAvailabilityHandler lets patients browse a doctor's open slots for
// the coming week.
func doctorAvailabilityHandler(store *availability.Store, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		if _, err := dir.GetDoctor(r.Context(), doctorID); err != nil {
			writeDomainError(w, err)
			return
		}

		writeSlots(w, r, store, doctorID)
	}
}

func writeSlots(w http.ResponseWriter, r *http.Request, store *availability.Store, doctorID uuid.UUID) {
	days := availability.HorizonDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	slots, err := store.NextDays(r.Context(), doctorID, days)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		resp = append(resp, toSlotResponse(&slots[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
