package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound = errors.New("availability slot not found")
)

// Repository contains all DB interactions needed by the store.
type Repository interface {
	// Upsert is keyed on (doctor, date, start): an existing row gets its
	// end time overwritten and is re-marked available.
	Upsert(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end TimeOfDay) (*Slot, error)

	ListForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Slot, error)
	ListBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Slot, error)

	Delete(ctx context.Context, id, doctorID uuid.UUID) error

	// DeleteExpired removes every slot dated strictly before the cutoff.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
