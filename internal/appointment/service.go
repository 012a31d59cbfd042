package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medibook/hospital-management/internal/availability"
	redisclient "github.com/medibook/hospital-management/internal/redis"
)

var (
	ErrPastDate          = errors.New("appointment date cannot be in the past")
	ErrOutsideWindow     = fmt.Errorf("appointments can only be booked within the next %d days", availability.HorizonDays)
	ErrNotAvailable      = errors.New("doctor is not available on this date/time, please check availability")
	ErrSlotBeingBooked   = errors.New("slot is currently being booked, please retry")
	ErrNotCompletable    = errors.New("appointment cannot be completed in its current status")
	ErrNotCancellable    = errors.New("appointment cannot be cancelled in its current status")
	ErrDiagnosisRequired = errors.New("diagnosis is required")
)

// AvailabilityChecker is the slice of the availability store the booking
// service needs.
type AvailabilityChecker interface {
	IsAvailableAt(ctx context.Context, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (bool, error)
}

type Service struct {
	repo   Repository
	avail  AvailabilityChecker
	locker redisclient.Locker
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, avail AvailabilityChecker, locker redisclient.Locker, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		avail:  avail,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// BookAppointment reserves a doctor slot for a patient. A per-slot Redis
// lock keeps concurrent requests for the same slot out of the critical
// section; the partial unique index on (doctor, date, time, Booked) is the
// final authority if the lock ever fails open.
func (s *Service) BookAppointment(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error) {
	date = availability.DateOnly(date)
	today := availability.DateOnly(s.now())

	if date.Before(today) {
		return nil, ErrPastDate
	}
	if date.After(today.AddDate(0, 0, availability.HorizonDays)) {
		return nil, ErrOutsideWindow
	}

	// Fast-path double-booking check so the caller gets the slot-taken
	// message before the availability one, matching the booking contract.
	existing, err := s.repo.GetBookedSlot(ctx, doctorID, date, t)
	if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
		return nil, fmt.Errorf("check booked slot: %w", err)
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	ok, err := s.avail.IsAvailableAt(ctx, doctorID, date, t)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !ok {
		return nil, ErrNotAvailable
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, slotKey(doctorID, date, t), func(lockCtx context.Context) error {
		appt, err := s.repo.InsertBooked(lockCtx, patientID, doctorID, date, t)
		if err != nil {
			return err
		}
		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", doctorID.String()).
		Str("patient_id", patientID.String()).
		Str("date", date.Format("2006-01-02")).
		Str("time", t.String()).
		Msg("appointment booked")

	return created, nil
}

// CancelAppointment transitions a booked appointment to Cancelled, storing
// the free-text reason. Terminal appointments are rejected.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusBooked, StatusCancelled, &reason)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrNotCancellable
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("reason", reason).
		Msg("appointment cancelled")

	return updated, nil
}

// CreateTreatment records the diagnosis for a booked appointment and marks
// it Completed in the same transaction. This is the only path that produces
// a Completed appointment.
func (s *Service) CreateTreatment(ctx context.Context, appointmentID uuid.UUID, diagnosis string, prescription, notes *string) (*Treatment, error) {
	if strings.TrimSpace(diagnosis) == "" {
		return nil, ErrDiagnosisRequired
	}

	appt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.CanBeCompleted() {
		return nil, ErrNotCompletable
	}

	if _, err := s.repo.GetTreatmentByAppointment(ctx, appointmentID); err == nil {
		return nil, ErrTreatmentExists
	} else if !errors.Is(err, ErrTreatmentNotFound) {
		return nil, fmt.Errorf("check existing treatment: %w", err)
	}

	tr, err := s.repo.CreateTreatment(ctx, appointmentID, diagnosis, prescription, notes)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrNotCompletable
		}
		if errors.Is(err, ErrTreatmentExists) {
			return nil, ErrTreatmentExists
		}
		return nil, fmt.Errorf("create treatment: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", appointmentID.String()).
		Str("treatment_id", tr.ID.String()).
		Msg("treatment recorded, appointment completed")

	return tr, nil
}

// UpdateTreatment overwrites only the provided fields.
func (s *Service) UpdateTreatment(ctx context.Context, id uuid.UUID, diagnosis, prescription, notes *string) (*Treatment, error) {
	if diagnosis != nil && strings.TrimSpace(*diagnosis) == "" {
		return nil, ErrDiagnosisRequired
	}
	return s.repo.UpdateTreatment(ctx, id, diagnosis, prescription, notes)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetTreatmentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Treatment, error) {
	return s.repo.GetTreatmentByAppointment(ctx, appointmentID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID, f)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID, f)
}

func (s *Service) TreatmentHistoryByPatient(ctx context.Context, patientID uuid.UUID) ([]Treatment, error) {
	return s.repo.ListTreatmentsByPatient(ctx, patientID)
}

func (s *Service) TreatmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Treatment, error) {
	return s.repo.ListTreatmentsByDoctor(ctx, doctorID)
}

func (s *Service) SearchTreatments(ctx context.Context, query string) ([]Treatment, error) {
	return s.repo.SearchTreatmentsByDiagnosis(ctx, query)
}

func slotKey(doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date.Format("2006-01-02"), t)
}
