package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db querier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

func newPgRepositoryWithQuerier(q querier) *PgRepository {
	return &PgRepository{db: q}
}

// Helpers

func scanSlot(row pgx.Row) (*Slot, error) {
	var (
		s          Slot
		start, end string
	)

	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.Date,
		&start,
		&end,
		&s.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if s.StartTime, err = ParseTimeOfDay(start); err != nil {
		return nil, err
	}
	if s.EndTime, err = ParseTimeOfDay(end); err != nil {
		return nil, err
	}

	return &s, nil
}

const slotColumns = `
	id, doctor_id, available_date,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	is_available
`

// Interface methods

func (r *PgRepository) Upsert(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end TimeOfDay) (*Slot, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO doctor_availability (id, doctor_id, available_date, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4::time, $5::time, TRUE)
		ON CONFLICT (doctor_id, available_date, start_time)
		DO UPDATE SET end_time = EXCLUDED.end_time, is_available = TRUE
		RETURNING `+slotColumns,
		uuid.New(), doctorID, date, start.String(), end.String())

	return scanSlot(row)
}

func (r *PgRepository) ListForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Slot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM doctor_availability
		WHERE doctor_id = $1 AND available_date = $2
		ORDER BY start_time
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *PgRepository) ListBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Slot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM doctor_availability
		WHERE doctor_id = $1
		  AND available_date >= $2
		  AND available_date <= $3
		  AND is_available = TRUE
		ORDER BY available_date, start_time
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *PgRepository) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM doctor_availability
		WHERE id = $1 AND doctor_id = $2
	`, id, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PgRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM doctor_availability
		WHERE available_date < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectSlots(rows pgx.Rows) ([]Slot, error) {
	var result []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
