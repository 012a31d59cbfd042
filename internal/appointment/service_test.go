package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-management/internal/availability"
	redisclient "github.com/medibook/hospital-management/internal/redis"
)

// stubRepo keeps appointments and treatments in memory and enforces the
// same uniqueness rules the schema does.
type stubRepo struct {
	appointments map[uuid.UUID]*Appointment
	treatments   map[uuid.UUID]*Treatment // keyed by appointment ID
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		appointments: make(map[uuid.UUID]*Appointment),
		treatments:   make(map[uuid.UUID]*Treatment),
	}
}

func (r *stubRepo) InsertBooked(_ context.Context, patientID, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error) {
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == t && a.Status == StatusBooked {
			return nil, ErrSlotTaken
		}
	}
	a := &Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      t,
		Status:    StatusBooked,
		BookedAt:  time.Now().UTC(),
	}
	r.appointments[a.ID] = a
	return a, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubRepo) GetBookedSlot(_ context.Context, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error) {
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == t && a.Status == StatusBooked {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (r *stubRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, reason *string) (*Appointment, error) {
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrStatusConflict
	}
	a.Status = to
	if reason != nil {
		a.CancellationReason = reason
	}
	cp := *a
	return &cp, nil
}

func (r *stubRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, f ListFilter) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && matches(a, f) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubRepo) ListByPatient(_ context.Context, patientID uuid.UUID, f ListFilter) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID && matches(a, f) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func matches(a *Appointment, f ListFilter) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.FromDate != nil && a.Date.Before(*f.FromDate) {
		return false
	}
	return true
}

func (r *stubRepo) CreateTreatment(_ context.Context, appointmentID uuid.UUID, diagnosis string, prescription, notes *string) (*Treatment, error) {
	a, ok := r.appointments[appointmentID]
	if !ok || a.Status != StatusBooked {
		return nil, ErrStatusConflict
	}
	if _, exists := r.treatments[appointmentID]; exists {
		return nil, ErrTreatmentExists
	}
	a.Status = StatusCompleted
	tr := &Treatment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Diagnosis:     diagnosis,
		Prescription:  prescription,
		Notes:         notes,
		TreatedAt:     time.Now().UTC(),
	}
	r.treatments[appointmentID] = tr
	cp := *tr
	return &cp, nil
}

func (r *stubRepo) GetTreatmentByAppointment(_ context.Context, appointmentID uuid.UUID) (*Treatment, error) {
	tr, ok := r.treatments[appointmentID]
	if !ok {
		return nil, ErrTreatmentNotFound
	}
	cp := *tr
	return &cp, nil
}

func (r *stubRepo) UpdateTreatment(_ context.Context, id uuid.UUID, diagnosis, prescription, notes *string) (*Treatment, error) {
	for _, tr := range r.treatments {
		if tr.ID == id {
			if diagnosis != nil {
				tr.Diagnosis = *diagnosis
			}
			if prescription != nil {
				tr.Prescription = prescription
			}
			if notes != nil {
				tr.Notes = notes
			}
			cp := *tr
			return &cp, nil
		}
	}
	return nil, ErrTreatmentNotFound
}

func (r *stubRepo) ListTreatmentsByPatient(_ context.Context, patientID uuid.UUID) ([]Treatment, error) {
	var out []Treatment
	for apptID, tr := range r.treatments {
		if a, ok := r.appointments[apptID]; ok && a.PatientID == patientID {
			out = append(out, *tr)
		}
	}
	return out, nil
}

func (r *stubRepo) ListTreatmentsByDoctor(_ context.Context, doctorID uuid.UUID) ([]Treatment, error) {
	var out []Treatment
	for apptID, tr := range r.treatments {
		if a, ok := r.appointments[apptID]; ok && a.DoctorID == doctorID {
			out = append(out, *tr)
		}
	}
	return out, nil
}

func (r *stubRepo) SearchTreatmentsByDiagnosis(_ context.Context, _ string) ([]Treatment, error) {
	return nil, nil
}

// stubAvailability answers availability checks from a fixed window.
type stubAvailability struct {
	start, end availability.TimeOfDay
	dates      map[string]bool
}

func (s *stubAvailability) IsAvailableAt(_ context.Context, _ uuid.UUID, date time.Time, t availability.TimeOfDay) (bool, error) {
	if s.dates != nil && !s.dates[date.Format("2006-01-02")] {
		return false, nil
	}
	return !t.Before(s.start) && !t.After(s.end), nil
}

// noopLocker always grants the lock.
type noopLocker struct{}

func (noopLocker) WithSlotLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// deniedLocker simulates a contended slot.
type deniedLocker struct{}

func (deniedLocker) WithSlotLock(context.Context, string, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

var serviceToday = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func newTestService(repo Repository, avail AvailabilityChecker, locker redisclient.Locker) *Service {
	svc := NewService(repo, avail, locker, zerolog.Nop())
	svc.now = func() time.Time { return serviceToday.Add(9 * time.Hour) }
	return svc
}

func allDayAvailability() *stubAvailability {
	return &stubAvailability{
		start: availability.TimeOfDay{Hour: 0},
		end:   availability.TimeOfDay{Hour: 23, Minute: 59},
	}
}

func TestBookAppointmentHappyPath(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	patientID := uuid.New()
	doctorID := uuid.New()

	appt, err := svc.BookAppointment(context.Background(), patientID, doctorID,
		serviceToday.AddDate(0, 0, 2), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	assert.Equal(t, StatusBooked, appt.Status)
	assert.Equal(t, patientID, appt.PatientID)
	assert.Equal(t, doctorID, appt.DoctorID)
}

func TestBookAppointmentRejectsPastDate(t *testing.T) {
	svc := newTestService(newStubRepo(), allDayAvailability(), noopLocker{})

	_, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, -1), availability.TimeOfDay{Hour: 10})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestBookAppointmentRollingWindow(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	// today+7 is the last bookable date.
	_, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 7), availability.TimeOfDay{Hour: 10})
	assert.NoError(t, err)

	// today+8 is outside the window.
	_, err = svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 8), availability.TimeOfDay{Hour: 10})
	assert.ErrorIs(t, err, ErrOutsideWindow)

	// Booking today is allowed.
	_, err = svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday, availability.TimeOfDay{Hour: 10})
	assert.NoError(t, err)
}

func TestBookAppointmentRejectsDoubleBooking(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	doctorID := uuid.New()
	date := serviceToday.AddDate(0, 0, 1)
	at := availability.TimeOfDay{Hour: 11}

	first, err := svc.BookAppointment(context.Background(), uuid.New(), doctorID, date, at)
	require.NoError(t, err)

	_, err = svc.BookAppointment(context.Background(), uuid.New(), doctorID, date, at)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// The original appointment is untouched.
	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, got.Status)

	// A different time on the same day is fine.
	_, err = svc.BookAppointment(context.Background(), uuid.New(), doctorID, date,
		availability.TimeOfDay{Hour: 11, Minute: 30})
	assert.NoError(t, err)
}

func TestBookAppointmentCancelledSlotCanBeRebooked(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	doctorID := uuid.New()
	date := serviceToday.AddDate(0, 0, 1)
	at := availability.TimeOfDay{Hour: 11}

	first, err := svc.BookAppointment(context.Background(), uuid.New(), doctorID, date, at)
	require.NoError(t, err)

	_, err = svc.CancelAppointment(context.Background(), first.ID, "schedule change")
	require.NoError(t, err)

	// Only Booked rows hold the slot.
	_, err = svc.BookAppointment(context.Background(), uuid.New(), doctorID, date, at)
	assert.NoError(t, err)
}

func TestBookAppointmentRequiresAvailability(t *testing.T) {
	avail := &stubAvailability{
		start: availability.TimeOfDay{Hour: 9},
		end:   availability.TimeOfDay{Hour: 12},
	}
	svc := newTestService(newStubRepo(), avail, noopLocker{})

	_, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 13})
	assert.ErrorIs(t, err, ErrNotAvailable)

	// The window's closing instant is bookable.
	_, err = svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 12})
	assert.NoError(t, err)
}

func TestBookAppointmentContendedSlot(t *testing.T) {
	svc := newTestService(newStubRepo(), allDayAvailability(), deniedLocker{})

	_, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	assert.ErrorIs(t, err, ErrSlotBeingBooked)
}

func TestCancelAppointment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	cancelled, err := svc.CancelAppointment(context.Background(), appt.ID, "feeling better")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	if assert.NotNil(t, cancelled.CancellationReason) {
		assert.Equal(t, "feeling better", *cancelled.CancellationReason)
	}

	// Cancelling twice is rejected.
	_, err = svc.CancelAppointment(context.Background(), appt.ID, "again")
	assert.ErrorIs(t, err, ErrNotCancellable)

	// Unknown appointment.
	_, err = svc.CancelAppointment(context.Background(), uuid.New(), "whatever")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreateTreatmentCompletesAppointment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	prescription := "rest and fluids"
	tr, err := svc.CreateTreatment(context.Background(), appt.ID, "seasonal flu", &prescription, nil)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, tr.AppointmentID)
	assert.Equal(t, "seasonal flu", tr.Diagnosis)

	// The appointment is Completed as part of the same operation.
	got, err := svc.GetAppointment(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// And it can no longer be cancelled.
	_, err = svc.CancelAppointment(context.Background(), appt.ID, "too late")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCreateTreatmentValidation(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	_, err = svc.CreateTreatment(context.Background(), appt.ID, "   ", nil, nil)
	assert.ErrorIs(t, err, ErrDiagnosisRequired)

	_, err = svc.CreateTreatment(context.Background(), uuid.New(), "flu", nil, nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreateTreatmentRejectsDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	_, err = svc.CreateTreatment(context.Background(), appt.ID, "flu", nil, nil)
	require.NoError(t, err)

	// Second treatment for the same appointment: the appointment is
	// already Completed, so the state check fires first.
	_, err = svc.CreateTreatment(context.Background(), appt.ID, "flu again", nil, nil)
	assert.ErrorIs(t, err, ErrNotCompletable)
}

func TestCreateTreatmentRejectsCancelledAppointment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	_, err = svc.CancelAppointment(context.Background(), appt.ID, "no show")
	require.NoError(t, err)

	_, err = svc.CreateTreatment(context.Background(), appt.ID, "flu", nil, nil)
	assert.ErrorIs(t, err, ErrNotCompletable)
}

func TestUpdateTreatment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, allDayAvailability(), noopLocker{})

	appt, err := svc.BookAppointment(context.Background(), uuid.New(), uuid.New(),
		serviceToday.AddDate(0, 0, 1), availability.TimeOfDay{Hour: 10})
	require.NoError(t, err)

	tr, err := svc.CreateTreatment(context.Background(), appt.ID, "flu", nil, nil)
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdateTreatment(context.Background(), tr.ID, &blank, nil, nil)
	assert.ErrorIs(t, err, ErrDiagnosisRequired)

	notes := "follow up in two weeks"
	updated, err := svc.UpdateTreatment(context.Background(), tr.ID, nil, nil, &notes)
	require.NoError(t, err)
	assert.Equal(t, "flu", updated.Diagnosis)
	if assert.NotNil(t, updated.Notes) {
		assert.Equal(t, notes, *updated.Notes)
	}
}
