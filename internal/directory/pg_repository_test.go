package directory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgInsertSpecializationDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	mock.ExpectQuery("INSERT INTO specializations").
		WithArgs(pgxmock.AnyArg(), "Cardiology", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "specializations_name_key"})

	_, err = repo.InsertSpecialization(context.Background(), "Cardiology", nil)
	assert.ErrorIs(t, err, ErrSpecializationExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertDoctorLicenseConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	license := "LIC-123456"
	d := &Doctor{
		UserID:           uuid.New(),
		SpecializationID: uuid.New(),
		Name:             "Dr. Who",
		LicenseNumber:    &license,
	}

	mock.ExpectQuery("INSERT INTO doctors").
		WithArgs(pgxmock.AnyArg(), d.UserID, d.SpecializationID, d.Name, d.LicenseNumber,
			(*string)(nil), (*int)(nil), (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "doctors_license_number_key"})

	_, err = repo.InsertDoctor(context.Background(), d)
	assert.ErrorIs(t, err, ErrLicenseInUse)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgGetSpecializationByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM specializations").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "count"}).
			AddRow(id, "Neurology", nil, 3))

	sp, err := repo.GetSpecializationByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Neurology", sp.Name)
	assert.Equal(t, 3, sp.DoctorCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListPatients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	now := time.Now().UTC()
	cols := []string{
		"id", "user_id", "name", "date_of_birth", "gender", "contact_number",
		"address", "blood_group", "emergency_contact", "created_at", "updated_at",
	}

	mock.ExpectQuery("SELECT (.+) FROM patients").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(uuid.New(), uuid.New(), "Jane Doe", nil, nil, "555-0100", nil, nil, nil, now, now))

	patients, err := repo.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Jane Doe", patients[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}
