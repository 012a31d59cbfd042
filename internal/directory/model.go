package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Specialization is a medical department, e.g. Cardiology. Owns zero or
// more doctors.
type Specialization struct {
	ID          uuid.UUID
	Name        string
	Description *string
	DoctorCount int
}

// Doctor is a medical professional tied to one user identity and one
// specialization.
type Doctor struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SpecializationID uuid.UUID
	Name             string
	LicenseNumber    *string
	Qualification    *string
	ExperienceYears  *int
	ContactNumber    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Patient is an individual seeking care, tied to one user identity.
type Patient struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Name             string
	DateOfBirth      *time.Time
	Gender           *string
	ContactNumber    string
	Address          *string
	BloodGroup       *string
	EmergencyContact *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Age computes the patient's age in full years, or -1 when the date of
// birth is unknown.
func (p *Patient) Age(today time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	dob := *p.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodGroup(bg string) bool {
	bg = strings.ToUpper(bg)
	for _, g := range bloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}

var genders = []string{"Male", "Female", "Other"}

func ValidGender(g string) bool {
	for _, v := range genders {
		if g == v {
			return true
		}
	}
	return false
}
