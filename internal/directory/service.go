package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrContactRequired   = errors.New("contact number is required")
	ErrInvalidBloodGroup = errors.New("invalid blood group")
	ErrInvalidGender     = errors.New("invalid gender")
)

// Service manages the hospital directory: specializations, doctors and
// patients. Admin handlers drive the mutations; patient handlers only read.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateSpecialization(ctx context.Context, name string, description *string) (*Specialization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	sp, err := s.repo.InsertSpecialization(ctx, name, description)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("specialization_id", sp.ID.String()).Str("name", sp.Name).Msg("specialization created")
	return sp, nil
}

func (s *Service) ListSpecializations(ctx context.Context) ([]Specialization, error) {
	return s.repo.ListSpecializations(ctx)
}

func (s *Service) SearchSpecializations(ctx context.Context, query string) ([]Specialization, error) {
	return s.repo.SearchSpecializations(ctx, query)
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.repo.GetSpecializationByID(ctx, d.SpecializationID); err != nil {
		return nil, err
	}

	doc, err := s.repo.InsertDoctor(ctx, d)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("doctor_id", doc.ID.String()).Str("name", doc.Name).Msg("doctor created")
	return doc, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.repo.GetSpecializationByID(ctx, d.SpecializationID); err != nil {
		return nil, err
	}
	return s.repo.UpdateDoctor(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("doctor_id", id.String()).Msg("doctor deleted")
	return nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByUserID(ctx, userID)
}

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

func (s *Service) ListDoctorsBySpecialization(ctx context.Context, specializationID uuid.UUID) ([]Doctor, error) {
	return s.repo.ListDoctorsBySpecialization(ctx, specializationID)
}

func (s *Service) SearchDoctors(ctx context.Context, query string) ([]Doctor, error) {
	return s.repo.SearchDoctors(ctx, query)
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validatePatient(p); err != nil {
		return nil, err
	}

	created, err := s.repo.InsertPatient(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	s.logger.Info().Str("patient_id", created.ID.String()).Str("name", created.Name).Msg("patient created")
	return created, nil
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validatePatient(p); err != nil {
		return nil, err
	}
	return s.repo.UpdatePatient(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) GetPatientByUser(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByUserID(ctx, userID)
}

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) SearchPatients(ctx context.Context, query string) ([]Patient, error) {
	return s.repo.SearchPatients(ctx, query)
}

func validatePatient(p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(p.ContactNumber) == "" {
		return ErrContactRequired
	}
	if p.BloodGroup != nil && !ValidBloodGroup(*p.BloodGroup) {
		return ErrInvalidBloodGroup
	}
	if p.Gender != nil && !ValidGender(*p.Gender) {
		return ErrInvalidGender
	}
	return nil
}
