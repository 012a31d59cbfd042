package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/availability"
)

type Status string

const (
	StatusBooked    Status = "Booked"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment binds a patient to a doctor at a specific date and time.
// Appointments are never deleted; the status carries the soft lifecycle.
type Appointment struct {
	ID                 uuid.UUID
	PatientID          uuid.UUID
	DoctorID           uuid.UUID
	Date               time.Time
	Time               availability.TimeOfDay
	Status             Status
	BookedAt           time.Time
	UpdatedAt          time.Time
	CancellationReason *string
}

// CanBeCompleted is true only while the appointment is still booked. A
// cancelled appointment can never be completed afterwards.
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusBooked
}

// CanBeCancelled is true only while the appointment is still booked.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusBooked
}

// MarkCompleted transitions to Completed. Callers must check
// CanBeCompleted first; the treatment creation flow enforces this.
func (a *Appointment) MarkCompleted() {
	a.Status = StatusCompleted
	a.UpdatedAt = time.Now().UTC()
}

// MarkCancelled transitions to Cancelled and records the free-text reason.
// Callers must check CanBeCancelled first.
func (a *Appointment) MarkCancelled(reason string) {
	a.Status = StatusCancelled
	a.CancellationReason = &reason
	a.UpdatedAt = time.Now().UTC()
}

// IsUpcoming reports whether the appointment is still booked for today or
// a later date.
func (a *Appointment) IsUpcoming(today time.Time) bool {
	return !a.Date.Before(availability.DateOnly(today)) && a.Status == StatusBooked
}

// IsPast reports whether the appointment date has passed or the status is
// terminal.
func (a *Appointment) IsPast(today time.Time) bool {
	return a.Date.Before(availability.DateOnly(today)) || a.Status.Terminal()
}

// Treatment is the medical record attached to a completed appointment,
// exactly one per appointment.
type Treatment struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Diagnosis     string
	Prescription  *string
	Notes         *string
	TreatedAt     time.Time
	UpdatedAt     time.Time
}
