package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

type Education struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Year        int    `json:"year,omitempty" validate:"omitempty,gte=1900"`
}

type EducationList []Education

func (e EducationList) Value() (driver.Value, error) { return listValue([]Education(e)) }
func (e EducationList) MarshalJSON() ([]byte, error) { return listJSON([]Education(e)) }
func (e *EducationList) Scan(src interface{}) error  { return scanJSON(src, e) }

type Certification struct {
	Name        string `json:"name" validate:"required"`
	IssuingBody string `json:"issuingBody,omitempty"`
	IssueDate   *Date  `json:"issueDate,omitempty"`
	ExpiryDate  *Date  `json:"expiryDate,omitempty"`
}

type CertificationList []Certification

func (c CertificationList) Value() (driver.Value, error) { return listValue([]Certification(c)) }
func (c CertificationList) MarshalJSON() ([]byte, error) { return listJSON([]Certification(c)) }
func (c *CertificationList) Scan(src interface{}) error  { return scanJSON(src, c) }

type ScheduleSlot struct {
	Day         string `json:"day" validate:"required,weekday"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

type Schedule []ScheduleSlot

func (s Schedule) Value() (driver.Value, error) { return listValue([]ScheduleSlot(s)) }
func (s Schedule) MarshalJSON() ([]byte, error) { return listJSON([]ScheduleSlot(s)) }
func (s *Schedule) Scan(src interface{}) error  { return scanJSON(src, s) }

// DoctorProfile is the doctor satellite of an Account.
type DoctorProfile struct {
	Base
	AccountID         uuid.UUID         `json:"accountId" db:"account_id"`
	Specialization    string            `json:"specialization" db:"specialization" validate:"required"`
	LicenseNumber     string            `json:"licenseNumber" db:"license_number" validate:"required"`
	YearsOfExperience int               `json:"yearsOfExperience" db:"years_of_experience" validate:"gte=0"`
	Education         EducationList     `json:"education" db:"education" validate:"dive"`
	Certifications    CertificationList `json:"certifications" db:"certifications" validate:"dive"`
	Department        string            `json:"department" db:"department" validate:"required"`
	Schedule          Schedule          `json:"schedule" db:"schedule" validate:"dive"`
	ConsultationFee   float64           `json:"consultationFee" db:"consultation_fee" validate:"gte=0"`
	Bio               string            `json:"bio,omitempty" db:"bio" validate:"max=1000"`
	Languages         StringList        `json:"languages" db:"languages"`
	IsVerified        bool              `json:"isVerified" db:"is_verified"`
}

// DoctorSummary is the doctor projection embedded in clinical record views.
type DoctorSummary struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization" db:"specialization"`
	Department     string    `json:"department" db:"department"`
}

// DoctorView is a doctor profile together with its account.
type DoctorView struct {
	DoctorProfile
	User *Account `json:"user"`
}

func (v *DoctorView) Summary() *DoctorSummary {
	s := &DoctorSummary{
		ID:             v.ID,
		Specialization: v.Specialization,
		Department:     v.Department,
	}
	if v.User != nil {
		s.FirstName = v.User.FirstName
		s.LastName = v.User.LastName
		s.Email = v.User.Email
	}
	return s
}

// DoctorSearch filters the doctor directory.
type DoctorSearch struct {
	Query          string `form:"query"`
	Specialization string `form:"specialization"`
	Department     string `form:"department"`
}
