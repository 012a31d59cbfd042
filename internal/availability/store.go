package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HorizonDays is the rolling window within which doctors declare
// availability and patients book appointments.
const HorizonDays = 7

var (
	ErrInvalidWindow  = errors.New("start time must be before end time")
	ErrOutsideHorizon = fmt.Errorf("availability can only be set within the next %d days", HorizonDays)
)

// Store manages doctor availability windows.
type Store struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewStore(repo Repository, logger zerolog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SetAvailability upserts a slot keyed by (doctor, date, start). Setting the
// same start twice overwrites the end time instead of duplicating the slot.
// Overlap between distinct slots on the same date is not validated.
func (s *Store) SetAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end TimeOfDay) (*Slot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	date = DateOnly(date)
	today := DateOnly(s.now())
	if date.Before(today) || date.After(today.AddDate(0, 0, HorizonDays)) {
		return nil, ErrOutsideHorizon
	}

	slot, err := s.repo.Upsert(ctx, doctorID, date, start, end)
	if err != nil {
		return nil, fmt.Errorf("upsert availability: %w", err)
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Str("date", date.Format("2006-01-02")).
		Str("start", start.String()).
		Str("end", end.String()).
		Msg("availability set")

	return slot, nil
}

// IsAvailableAt reports whether any available slot for the doctor on the
// given date contains t. Both slot bounds are inclusive.
func (s *Store) IsAvailableAt(ctx context.Context, doctorID uuid.UUID, date time.Time, t TimeOfDay) (bool, error) {
	slots, err := s.repo.ListForDate(ctx, doctorID, DateOnly(date))
	if err != nil {
		return false, fmt.Errorf("list availability: %w", err)
	}

	for _, slot := range slots {
		if slot.IsAvailable && slot.Contains(t) {
			return true, nil
		}
	}
	return false, nil
}

// NextDays returns the doctor's available slots from today through today+n.
// n is clamped to the rolling horizon.
func (s *Store) NextDays(ctx context.Context, doctorID uuid.UUID, n int) ([]Slot, error) {
	if n <= 0 || n > HorizonDays {
		n = HorizonDays
	}

	today := DateOnly(s.now())
	slots, err := s.repo.ListBetween(ctx, doctorID, today, today.AddDate(0, 0, n))
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

// DeleteSlot removes one of the doctor's own slots.
func (s *Store) DeleteSlot(ctx context.Context, doctorID, slotID uuid.UUID) error {
	if err := s.repo.Delete(ctx, slotID, doctorID); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return err
		}
		return fmt.Errorf("delete availability slot: %w", err)
	}
	return nil
}

// PurgeExpired deletes all slots dated strictly before today. The purge
// worker calls this periodically.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, DateOnly(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge expired availability: %w", err)
	}

	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("purged expired availability slots")
	}
	return deleted, nil
}
