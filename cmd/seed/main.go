package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/hospital-management/internal/db"
)

// Every seeded account gets this password so the data is usable for
// local manual testing.
const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}
	passwordHash := string(hash)

	seedCtx := context.Background()

	if err := seedAdmin(seedCtx, pool, passwordHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	specIDs, err := seedSpecializations(seedCtx, pool)
	if err != nil {
		log.Fatalf("seed specializations: %v", err)
	}

	doctorIDs, err := seedDoctors(seedCtx, pool, specIDs, passwordHash, 25)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}

	if err := seedPatients(seedCtx, pool, passwordHash, 200); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	if err := seedAvailability(seedCtx, pool, doctorIDs); err != nil {
		log.Fatalf("seed availability: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, passwordHash string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, 'admin', 'admin@medibook.local', $2, 'admin')
		ON CONFLICT (username) DO NOTHING
	`, uuid.New(), passwordHash)
	if err != nil {
		return err
	}

	log.Println("admin seeded (username: admin)")
	return nil
}

func seedSpecializations(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	names := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	log.Printf("seeding %d specializations", len(names))

	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO specializations (id, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, id, name, gofakeit.Sentence(8))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, specIDs []uuid.UUID, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		userID := uuid.New()
		username := fmt.Sprintf("doctor%02d", i+1)

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, role)
			VALUES ($1, $2, $3, $4, 'doctor')
		`, userID, username, gofakeit.Email(), passwordHash)
		if err != nil {
			return nil, err
		}

		doctorID := uuid.New()
		specID := specIDs[gofakeit.Number(0, len(specIDs)-1)]

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, user_id, specialization_id, name, license_number,
			                     qualification, experience_years, contact_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, doctorID, userID, specID,
			"Dr. "+gofakeit.Name(),
			fmt.Sprintf("LIC-%06d", gofakeit.Number(100000, 999999)),
			"MBBS",
			gofakeit.Number(1, 30),
			gofakeit.Phone())
		if err != nil {
			return nil, err
		}

		ids = append(ids, doctorID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) error {
	log.Printf("seeding %d patients", count)

	bloodGroups := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	genders := []string{"Male", "Female", "Other"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		userID := uuid.New()
		username := fmt.Sprintf("patient%03d", i+1)

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, role)
			VALUES ($1, $2, $3, $4, 'patient')
		`, userID, username, gofakeit.Email(), passwordHash)
		if err != nil {
			return err
		}

		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		)

		_, err = tx.Exec(ctx, `
			INSERT INTO patients (id, user_id, name, date_of_birth, gender,
			                      contact_number, address, blood_group, emergency_contact)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New(), userID,
			gofakeit.Name(),
			dob,
			genders[gofakeit.Number(0, len(genders)-1)],
			gofakeit.Phone(),
			gofakeit.Address().Address,
			bloodGroups[gofakeit.Number(0, len(bloodGroups)-1)],
			gofakeit.Phone())
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("patients seeded")
	return nil
}

// seedAvailability gives every doctor a morning and an afternoon window
// for each of the next 7 days.
func seedAvailability(ctx context.Context, pool *pgxpool.Pool, doctorIDs []uuid.UUID) error {
	log.Printf("seeding availability for %d doctors", len(doctorIDs))

	windows := []struct{ start, end string }{
		{"09:00", "12:00"},
		{"14:00", "17:00"},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, doctorID := range doctorIDs {
		for day := 0; day <= 7; day++ {
			date := today.AddDate(0, 0, day)
			for _, w := range windows {
				_, err := tx.Exec(ctx, `
					INSERT INTO doctor_availability (id, doctor_id, available_date, start_time, end_time)
					VALUES ($1, $2, $3, $4::time, $5::time)
					ON CONFLICT (doctor_id, available_date, start_time) DO NOTHING
				`, uuid.New(), doctorID, date, w.start, w.end)
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("availability seeded")
	return nil
}
