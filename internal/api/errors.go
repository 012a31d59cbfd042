package api

import (
	"errors"
	"net/http"

	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/auth"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
	redisclient "github.com/medibook/hospital-management/internal/redis"
)

// writeDomainError maps service sentinel errors onto HTTP responses. The
// human-readable message contract lives in the sentinels themselves.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	// Validation
	case errors.Is(err, appointment.ErrPastDate),
		errors.Is(err, appointment.ErrOutsideWindow),
		errors.Is(err, appointment.ErrDiagnosisRequired),
		errors.Is(err, availability.ErrInvalidWindow),
		errors.Is(err, availability.ErrOutsideHorizon),
		errors.Is(err, directory.ErrNameRequired),
		errors.Is(err, directory.ErrContactRequired),
		errors.Is(err, directory.ErrInvalidBloodGroup),
		errors.Is(err, directory.ErrInvalidGender),
		errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())

	// Not found
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrTreatmentNotFound):
		writeError(w, http.StatusNotFound, "treatment_not_found", err.Error())
	case errors.Is(err, availability.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, directory.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, directory.ErrSpecializationNotFound):
		writeError(w, http.StatusNotFound, "specialization_not_found", err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())

	// Conflicts
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrNotAvailable):
		writeError(w, http.StatusConflict, "doctor_not_available", err.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrTreatmentExists):
		writeError(w, http.StatusConflict, "treatment_exists", err.Error())
	case errors.Is(err, directory.ErrSpecializationExists):
		writeError(w, http.StatusConflict, "specialization_exists", err.Error())
	case errors.Is(err, directory.ErrLicenseInUse):
		writeError(w, http.StatusConflict, "license_in_use", err.Error())
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())

	// State transitions
	case errors.Is(err, appointment.ErrNotCompletable),
		errors.Is(err, appointment.ErrNotCancellable):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, auth.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, "account_disabled", err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
