package directory

import (
	"context"
	"errors"

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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Specializations

func scanSpecialization(row pgx.Row) (*Specialization, error) {
	var sp Specialization
	err := row.Scan(&sp.ID, &sp.Name, &sp.Description, &sp.DoctorCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpecializationNotFound
		}
		return nil, err
	}
	return &sp, nil
}

const specializationQuery = `
	SELECT s.id, s.name, s.description, count(d.id)
	FROM specializations s
	LEFT JOIN doctors d ON d.specialization_id = s.id
`

func (r *PgRepository) InsertSpecialization(ctx context.Context, name string, description *string) (*Specialization, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO specializations (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, 0
	`, uuid.New(), name, description)

	sp, err := scanSpecialization(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSpecializationExists
		}
		return nil, err
	}
	return sp, nil
}

func (r *PgRepository) ListSpecializations(ctx context.Context) ([]Specialization, error) {
	rows, err := r.db.Query(ctx, specializationQuery+`
		GROUP BY s.id ORDER BY s.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSpecializations(rows)
}

func (r *PgRepository) SearchSpecializations(ctx context.Context, query string) ([]Specialization, error) {
	rows, err := r.db.Query(ctx, specializationQuery+`
		WHERE s.name ILIKE '%' || $1 || '%'
		GROUP BY s.id ORDER BY s.name
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSpecializations(rows)
}

func (r *PgRepository) GetSpecializationByID(ctx context.Context, id uuid.UUID) (*Specialization, error) {
	row := r.db.QueryRow(ctx, specializationQuery+`
		WHERE s.id = $1
		GROUP BY s.id
	`, id)
	return scanSpecialization(row)
}

func collectSpecializations(rows pgx.Rows) ([]Specialization, error) {
	var result []Specialization
	for rows.Next() {
		sp, err := scanSpecialization(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Doctors

const doctorColumns = `
	id, user_id, specialization_id, name, license_number,
	qualification, experience_years, contact_number, created_at, updated_at
`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.SpecializationID,
		&d.Name,
		&d.LicenseNumber,
		&d.Qualification,
		&d.ExperienceYears,
		&d.ContactNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PgRepository) InsertDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO doctors (id, user_id, specialization_id, name, license_number, qualification, experience_years, contact_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+doctorColumns,
		uuid.New(), d.UserID, d.SpecializationID, d.Name, d.LicenseNumber, d.Qualification, d.ExperienceYears, d.ContactNumber)

	doc, err := scanDoctor(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLicenseInUse
		}
		return nil, err
	}
	return doc, nil
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE doctors
		SET specialization_id = $2,
		    name = $3,
		    license_number = $4,
		    qualification = $5,
		    experience_years = $6,
		    contact_number = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns,
		d.ID, d.SpecializationID, d.Name, d.LicenseNumber, d.Qualification, d.ExperienceYears, d.ContactNumber)

	doc, err := scanDoctor(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLicenseInUse
		}
		return nil, err
	}
	return doc, nil
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+doctorColumns+` FROM doctors WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+doctorColumns+` FROM doctors WHERE user_id = $1
	`, userID)
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return r.queryDoctors(ctx, `
		SELECT `+doctorColumns+` FROM doctors ORDER BY name
	`)
}

func (r *PgRepository) ListDoctorsBySpecialization(ctx context.Context, specializationID uuid.UUID) ([]Doctor, error) {
	return r.queryDoctors(ctx, `
		SELECT `+doctorColumns+` FROM doctors WHERE specialization_id = $1 ORDER BY name
	`, specializationID)
}

func (r *PgRepository) SearchDoctors(ctx context.Context, query string) ([]Doctor, error) {
	return r.queryDoctors(ctx, `
		SELECT `+doctorColumns+` FROM doctors WHERE name ILIKE '%' || $1 || '%' ORDER BY name
	`, query)
}

func (r *PgRepository) queryDoctors(ctx context.Context, sql string, args ...any) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Patients

const patientColumns = `
	id, user_id, name, date_of_birth, gender, contact_number,
	address, blood_group, emergency_contact, created_at, updated_at
`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.DateOfBirth,
		&p.Gender,
		&p.ContactNumber,
		&p.Address,
		&p.BloodGroup,
		&p.EmergencyContact,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgRepository) InsertPatient(ctx context.Context, p *Patient) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO patients (id, user_id, name, date_of_birth, gender, contact_number, address, blood_group, emergency_contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+patientColumns,
		uuid.New(), p.UserID, p.Name, p.DateOfBirth, p.Gender, p.ContactNumber, p.Address, p.BloodGroup, p.EmergencyContact)
	return scanPatient(row)
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE patients
		SET name = $2,
		    date_of_birth = $3,
		    gender = $4,
		    contact_number = $5,
		    address = $6,
		    blood_group = $7,
		    emergency_contact = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns,
		p.ID, p.Name, p.DateOfBirth, p.Gender, p.ContactNumber, p.Address, p.BloodGroup, p.EmergencyContact)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE user_id = $1
	`, userID)
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	return r.queryPatients(ctx, `
		SELECT `+patientColumns+` FROM patients ORDER BY name
	`)
}

func (r *PgRepository) SearchPatients(ctx context.Context, query string) ([]Patient, error) {
	return r.queryPatients(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE name ILIKE '%' || $1 || '%' OR contact_number ILIKE '%' || $1 || '%'
		ORDER BY name
	`, query)
}

func (r *PgRepository) queryPatients(ctx context.Context, sql string, args ...any) ([]Patient, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
