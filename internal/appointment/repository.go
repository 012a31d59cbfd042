package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/availability"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTreatmentNotFound   = errors.New("treatment record not found")

	// ErrSlotTaken means a Booked appointment already exists for the same
	// (doctor, date, time). Either the pre-check or the partial unique
	// index reports it.
	ErrSlotTaken = errors.New("doctor is not available at this time, please choose another time slot")

	// ErrTreatmentExists is raised by the unique appointment reference.
	ErrTreatmentExists = errors.New("treatment record already exists for this appointment")

	// ErrStatusConflict means a compare-and-swap status update found the
	// appointment in a different state than expected.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// ListFilter narrows appointment listings.
type ListFilter struct {
	Status   *Status
	FromDate *time.Time
}

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// InsertBooked creates a Booked appointment. A concurrent booking of
	// the same (doctor, date, time) surfaces as ErrSlotTaken via the
	// partial unique index.
	InsertBooked(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// GetBookedSlot finds the Booked appointment occupying (doctor, date,
	// time), if any.
	GetBookedSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error)

	// UpdateStatus performs a compare-and-swap on the status column.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason *string) (*Appointment, error)

	ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter) ([]Appointment, error)

	// CreateTreatment inserts the treatment row and completes the
	// appointment in a single transaction.
	CreateTreatment(ctx context.Context, appointmentID uuid.UUID, diagnosis string, prescription, notes *string) (*Treatment, error)

	GetTreatmentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Treatment, error)
	UpdateTreatment(ctx context.Context, id uuid.UUID, diagnosis, prescription, notes *string) (*Treatment, error)

	ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Treatment, error)
	ListTreatmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Treatment, error)
	SearchTreatmentsByDiagnosis(ctx context.Context, query string) ([]Treatment, error)
}
