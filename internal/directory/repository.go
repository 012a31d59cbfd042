package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSpecializationNotFound = errors.New("specialization not found")
	ErrSpecializationExists   = errors.New("specialization with this name already exists")
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrLicenseInUse           = errors.New("license number already registered")
	ErrPatientNotFound        = errors.New("patient not found")
)

// Repository contains all DB interactions needed by the directory service.
type Repository interface {
	InsertSpecialization(ctx context.Context, name string, description *string) (*Specialization, error)
	ListSpecializations(ctx context.Context) ([]Specialization, error)
	SearchSpecializations(ctx context.Context, query string) ([]Specialization, error)
	GetSpecializationByID(ctx context.Context, id uuid.UUID) (*Specialization, error)

	InsertDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListDoctorsBySpecialization(ctx context.Context, specializationID uuid.UUID) ([]Doctor, error)
	SearchDoctors(ctx context.Context, query string) ([]Doctor, error)

	InsertPatient(ctx context.Context, p *Patient) (*Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) (*Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	SearchPatients(ctx context.Context, query string) ([]Patient, error)
}
