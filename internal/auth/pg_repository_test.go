package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at",
}

func TestPgInsertUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "a@b.c", "hashed", RolePatient).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userID, "alice", "a@b.c", "hashed", RolePatient, true, now, now))

	u, err := repo.InsertUser(context.Background(), "alice", "a@b.c", "hashed", RolePatient)
	require.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.True(t, u.IsActive)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertUserUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"users_username_key", ErrUsernameTaken},
		{"users_email_key", ErrEmailTaken},
	}

	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := newPgRepositoryWithQuerier(mock)

			mock.ExpectQuery("INSERT INTO users").
				WithArgs(pgxmock.AnyArg(), "alice", "a@b.c", "hashed", RolePatient).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			_, err = repo.InsertUser(context.Background(), "alice", "a@b.c", "hashed", RolePatient)
			assert.ErrorIs(t, err, tc.want)

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgGetByUsernameNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgRepositoryWithQuerier(mock)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
