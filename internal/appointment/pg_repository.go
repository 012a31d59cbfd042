package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/hospital-management/internal/availability"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
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

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Helpers

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date,
	to_char(appointment_time, 'HH24:MI'),
	status, booked_at, updated_at, cancellation_reason
`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a      Appointment
		t      string
		reason *string
	)

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&t,
		&a.Status,
		&a.BookedAt,
		&a.UpdatedAt,
		&reason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if a.Time, err = availability.ParseTimeOfDay(t); err != nil {
		return nil, err
	}
	a.CancellationReason = reason
	return &a, nil
}

const treatmentColumns = `
	id, appointment_id, diagnosis, prescription, notes, treated_at, updated_at
`

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var tr Treatment

	err := row.Scan(
		&tr.ID,
		&tr.AppointmentID,
		&tr.Diagnosis,
		&tr.Prescription,
		&tr.Notes,
		&tr.TreatedAt,
		&tr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreatmentNotFound
		}
		return nil, err
	}

	return &tr, nil
}

// Interface methods

func (r *PgRepository) InsertBooked(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, status, booked_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::time, 'Booked', now(), now())
		RETURNING `+appointmentColumns,
		uuid.New(), patientID, doctorID, date, t.String())

	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetBookedSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, t availability.TimeOfDay) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND appointment_time = $3::time
		  AND status = 'Booked'
	`, doctorID, date, t.String())
	return scanAppointment(row)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason *string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    cancellation_reason = COALESCE($3, cancellation_reason),
		    updated_at = now()
		WHERE id = $1
		  AND status = $4
		RETURNING `+appointmentColumns,
		id, to, reason, from)

	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// The row exists but in another state, or is gone entirely.
			return nil, ErrStatusConflict
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter) ([]Appointment, error) {
	return r.list(ctx, "doctor_id", doctorID, f)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter) ([]Appointment, error) {
	return r.list(ctx, "patient_id", patientID, f)
}

func (r *PgRepository) list(ctx context.Context, column string, id uuid.UUID, f ListFilter) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE `+column+` = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::date IS NULL OR appointment_date >= $3)
		ORDER BY appointment_date, appointment_time
	`, id, f.Status, f.FromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateTreatment completes the appointment and inserts the treatment row
// as one transaction; either both land or neither does.
func (r *PgRepository) CreateTreatment(ctx context.Context, appointmentID uuid.UUID, diagnosis string, prescription, notes *string) (*Treatment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = 'Completed', updated_at = now()
		WHERE id = $1 AND status = 'Booked'
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrStatusConflict
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO treatments (id, appointment_id, diagnosis, prescription, notes, treated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING `+treatmentColumns,
		uuid.New(), appointmentID, diagnosis, prescription, notes)

	tr, err := scanTreatment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTreatmentExists
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return tr, nil
}

func (r *PgRepository) GetTreatmentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Treatment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+treatmentColumns+`
		FROM treatments
		WHERE appointment_id = $1
	`, appointmentID)
	return scanTreatment(row)
}

func (r *PgRepository) UpdateTreatment(ctx context.Context, id uuid.UUID, diagnosis, prescription, notes *string) (*Treatment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE treatments
		SET diagnosis = COALESCE($2, diagnosis),
		    prescription = COALESCE($3, prescription),
		    notes = COALESCE($4, notes),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+treatmentColumns,
		id, diagnosis, prescription, notes)
	return scanTreatment(row)
}

func (r *PgRepository) ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Treatment, error) {
	return r.listTreatments(ctx, `
		SELECT t.id, t.appointment_id, t.diagnosis, t.prescription, t.notes, t.treated_at, t.updated_at
		FROM treatments t
		JOIN appointments a ON a.id = t.appointment_id
		WHERE a.patient_id = $1
		ORDER BY t.treated_at DESC
	`, patientID)
}

func (r *PgRepository) ListTreatmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Treatment, error) {
	return r.listTreatments(ctx, `
		SELECT t.id, t.appointment_id, t.diagnosis, t.prescription, t.notes, t.treated_at, t.updated_at
		FROM treatments t
		JOIN appointments a ON a.id = t.appointment_id
		WHERE a.doctor_id = $1
		ORDER BY t.treated_at DESC
	`, doctorID)
}

func (r *PgRepository) SearchTreatmentsByDiagnosis(ctx context.Context, query string) ([]Treatment, error) {
	return r.listTreatments(ctx, `
		SELECT `+treatmentColumns+`
		FROM treatments
		WHERE diagnosis ILIKE '%' || $1 || '%'
		ORDER BY treated_at DESC
	`, query)
}

func (r *PgRepository) listTreatments(ctx context.Context, sql string, arg any) ([]Treatment, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Treatment
	for rows.Next() {
		tr, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *tr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
