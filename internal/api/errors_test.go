package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/auth"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
)

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{appointment.ErrPastDate, http.StatusBadRequest, "validation_error"},
		{appointment.ErrOutsideWindow, http.StatusBadRequest, "validation_error"},
		{availability.ErrInvalidWindow, http.StatusBadRequest, "validation_error"},
		{appointment.ErrAppointmentNotFound, http.StatusNotFound, "appointment_not_found"},
		{directory.ErrDoctorNotFound, http.StatusNotFound, "doctor_not_found"},
		{appointment.ErrSlotTaken, http.StatusConflict, "slot_already_booked"},
		{appointment.ErrNotAvailable, http.StatusConflict, "doctor_not_available"},
		{appointment.ErrTreatmentExists, http.StatusConflict, "treatment_exists"},
		{appointment.ErrNotCompletable, http.StatusConflict, "invalid_status_transition"},
		{appointment.ErrNotCancellable, http.StatusConflict, "invalid_status_transition"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{auth.ErrAccountDisabled, http.StatusForbidden, "account_disabled"},
		{errors.New("database on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.wantCode+"/"+tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Error)
		})
	}
}

func TestWriteDomainErrorUnwrapsWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, fmt.Errorf("cancel appointment: %w", appointment.ErrNotCancellable))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
