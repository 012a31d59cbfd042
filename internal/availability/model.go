package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a clock time with minute precision, no date attached.
// Postgres stores it in a time column; over the wire it reads "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes() > other.Minutes()
}

// Slot is a doctor-declared booking window on a specific date. Multiple
// slots per doctor per date are allowed, e.g. a morning and an evening one.
type Slot struct {
	ID          uuid.UUID
	DoctorID    uuid.UUID
	Date        time.Time
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	IsAvailable bool
}

// Contains reports whether t falls inside the slot window. Both bounds are
// inclusive: a booking may coincide with the slot's closing instant.
func (s Slot) Contains(t TimeOfDay) bool {
	return !t.Before(s.StartTime) && !t.After(s.EndTime)
}

// DateOnly truncates ts to its calendar date in UTC.
func DateOnly(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
