package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
}

func (e EmergencyContact) Value() (driver.Value, error) { return jsonValue(e) }
func (e *EmergencyContact) Scan(src interface{}) error  { return scanJSON(src, e) }

type InsuranceInfo struct {
	Provider     string `json:"provider,omitempty"`
	PolicyNumber string `json:"policyNumber,omitempty"`
	GroupNumber  string `json:"groupNumber,omitempty"`
	CoverageType string `json:"coverageType,omitempty"`
}

func (i InsuranceInfo) Value() (driver.Value, error) { return jsonValue(i) }
func (i *InsuranceInfo) Scan(src interface{}) error  { return scanJSON(src, i) }

type CurrentMedication struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	StartDate *Date  `json:"startDate,omitempty"`
	EndDate   *Date  `json:"endDate,omitempty"`
}

type CurrentMedications []CurrentMedication

func (c CurrentMedications) Value() (driver.Value, error) { return listValue([]CurrentMedication(c)) }
func (c CurrentMedications) MarshalJSON() ([]byte, error) { return listJSON([]CurrentMedication(c)) }
func (c *CurrentMedications) Scan(src interface{}) error  { return scanJSON(src, c) }

type MedicalHistoryEntry struct {
	Condition     string `json:"condition" validate:"required"`
	DiagnosedDate *Date  `json:"diagnosedDate,omitempty"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=active resolved chronic"`
	Notes         string `json:"notes,omitempty"`
}

type MedicalHistory []MedicalHistoryEntry

func (m MedicalHistory) Value() (driver.Value, error) { return listValue([]MedicalHistoryEntry(m)) }
func (m MedicalHistory) MarshalJSON() ([]byte, error) { return listJSON([]MedicalHistoryEntry(m)) }
func (m *MedicalHistory) Scan(src interface{}) error  { return scanJSON(src, m) }

// BloodGroups lists the accepted ABO/Rh groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// PatientProfile is the patient satellite of an Account.
type PatientProfile struct {
	Base
	AccountID          uuid.UUID          `json:"accountId" db:"account_id"`
	PatientID          string             `json:"patientId" db:"patient_id"`
	EmergencyContact   EmergencyContact   `json:"emergencyContact" db:"emergency_contact"`
	BloodGroup         string             `json:"bloodGroup,omitempty" db:"blood_group" validate:"omitempty,bloodgroup"`
	Allergies          StringList         `json:"allergies" db:"allergies"`
	ChronicConditions  StringList         `json:"chronicConditions" db:"chronic_conditions"`
	CurrentMedications CurrentMedications `json:"currentMedications" db:"current_medications" validate:"dive"`
	InsuranceInfo      InsuranceInfo      `json:"insuranceInfo" db:"insurance_info"`
	MedicalHistory     MedicalHistory     `json:"medicalHistory" db:"medical_history" validate:"dive"`
	PrimaryDoctorID    *uuid.UUID         `json:"primaryDoctorId,omitempty" db:"primary_doctor_id"`
}

// PatientSummary is the patient projection embedded in clinical record views.
type PatientSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PatientID   string    `json:"patientId" db:"patient_id"`
	FirstName   string    `json:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth *Date     `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender      string    `json:"gender,omitempty" db:"gender"`
}

// PatientView is a patient profile together with its account and, when set,
// the primary doctor.
type PatientView struct {
	PatientProfile
	User          *Account       `json:"user"`
	PrimaryDoctor *DoctorSummary `json:"primaryDoctor,omitempty"`
}

func (v *PatientView) Summary() *PatientSummary {
	s := &PatientSummary{ID: v.ID, PatientID: v.PatientID}
	if v.User != nil {
		s.FirstName = v.User.FirstName
		s.LastName = v.User.LastName
		s.Email = v.User.Email
		s.Phone = v.User.Phone
		s.DateOfBirth = v.User.DateOfBirth
		s.Gender = v.User.Gender
	}
	return s
}
