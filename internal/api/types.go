package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
)

const (
	dateLayout = "2006-01-02"
)

// Auth

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// Directory

type SpecializationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type SpecializationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	DoctorCount int       `json:"doctor_count"`
}

func toSpecializationResponse(sp *directory.Specialization) SpecializationResponse {
	return SpecializationResponse{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		DoctorCount: sp.DoctorCount,
	}
}

type DoctorRequest struct {
	UserID           string  `json:"user_id"`
	SpecializationID string  `json:"specialization_id"`
	Name             string  `json:"name"`
	LicenseNumber    *string `json:"license_number,omitempty"`
	Qualification    *string `json:"qualification,omitempty"`
	ExperienceYears  *int    `json:"experience_years,omitempty"`
	ContactNumber    *string `json:"contact_number,omitempty"`
}

type DoctorResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SpecializationID uuid.UUID `json:"specialization_id"`
	Name             string    `json:"name"`
	LicenseNumber    *string   `json:"license_number,omitempty"`
	Qualification    *string   `json:"qualification,omitempty"`
	ExperienceYears  *int      `json:"experience_years,omitempty"`
	ContactNumber    *string   `json:"contact_number,omitempty"`
}

func toDoctorResponse(d *directory.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:               d.ID,
		UserID:           d.UserID,
		SpecializationID: d.SpecializationID,
		Name:             d.Name,
		LicenseNumber:    d.LicenseNumber,
		Qualification:    d.Qualification,
		ExperienceYears:  d.ExperienceYears,
		ContactNumber:    d.ContactNumber,
	}
}

type PatientRequest struct {
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	ContactNumber    string  `json:"contact_number"`
	Address          *string `json:"address,omitempty"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

type PatientResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	DateOfBirth      *string   `json:"date_of_birth,omitempty"`
	Gender           *string   `json:"gender,omitempty"`
	ContactNumber    string    `json:"contact_number"`
	Address          *string   `json:"address,omitempty"`
	BloodGroup       *string   `json:"blood_group,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty"`
}

func toPatientResponse(p *directory.Patient) PatientResponse {
	resp := PatientResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		Name:             p.Name,
		Gender:           p.Gender,
		ContactNumber:    p.ContactNumber,
		Address:          p.Address,
		BloodGroup:       p.BloodGroup,
		EmergencyContact: p.EmergencyContact,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

// Availability

type SetAvailabilityRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SlotResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

func toSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:          s.ID,
		DoctorID:    s.DoctorID,
		Date:        s.Date.Format(dateLayout),
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		IsAvailable: s.IsAvailable,
	}
}

// Appointments

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID `json:"id"`
	PatientID          uuid.UUID `json:"patient_id"`
	DoctorID           uuid.UUID `json:"doctor_id"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	Status             string    `json:"status"`
	BookedAt           time.Time `json:"booked_at"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		DoctorID:           a.DoctorID,
		Date:               a.Date.Format(dateLayout),
		Time:               a.Time.String(),
		Status:             string(a.Status),
		BookedAt:           a.BookedAt,
		CancellationReason: a.CancellationReason,
	}
}

// Treatments

type CreateTreatmentRequest struct {
	Diagnosis    string  `json:"diagnosis"`
	Prescription *string `json:"prescription,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateTreatmentRequest struct {
	Diagnosis    *string `json:"diagnosis,omitempty"`
	Prescription *string `json:"prescription,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type TreatmentResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Diagnosis     string    `json:"diagnosis"`
	Prescription  *string   `json:"prescription,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	TreatedAt     time.Time `json:"treated_at"`
}

func toTreatmentResponse(t *appointment.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		Diagnosis:     t.Diagnosis,
		Prescription:  t.Prescription,
		Notes:         t.Notes,
		TreatedAt:     t.TreatedAt,
	}
}
