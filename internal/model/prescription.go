package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

const (
	PrescriptionStatusActive    = "active"
	PrescriptionStatusCompleted = "completed"
	PrescriptionStatusCancelled = "cancelled"
	PrescriptionStatusExpired   = "expired"
)

type Medication struct {
	Name             string `json:"name" binding:"required"`
	GenericName      string `json:"genericName,omitempty"`
	Dosage           string `json:"dosage" binding:"required"`
	Frequency        string `json:"frequency" binding:"required"`
	Duration         string `json:"duration" binding:"required"`
	Instructions     string `json:"instructions,omitempty"`
	Quantity         int    `json:"quantity,omitempty" binding:"gte=0"`
	Refills          int    `json:"refills" binding:"gte=0"`
	IsGenericAllowed *bool  `json:"isGenericAllowed,omitempty"`
}

type Medications []Medication

func (m Medications) Value() (driver.Value, error) { return listValue([]Medication(m)) }
func (m Medications) MarshalJSON() ([]byte, error) { return listJSON([]Medication(m)) }
func (m *Medications) Scan(src interface{}) error  { return scanJSON(src, m) }

// Prescription is issued by exactly one doctor for exactly one patient.
type Prescription struct {
	Base
	PatientID       uuid.UUID   `json:"patientId" db:"patient_id"`
	DoctorID        uuid.UUID   `json:"doctorId" db:"doctor_id"`
	MedicalReportID *uuid.UUID  `json:"medicalReportId,omitempty" db:"medical_report_id"`
	PrescriptionID  string      `json:"prescriptionId" db:"prescription_id"`
	Medications     Medications `json:"medications" db:"medications"`
	Diagnosis       string      `json:"diagnosis,omitempty" db:"diagnosis"`
	Instructions    string      `json:"instructions,omitempty" db:"instructions"`
	ValidUntil      Date        `json:"validUntil" db:"valid_until"`
	Status          string      `json:"status" db:"status"`
	PharmacyNotes   string      `json:"pharmacyNotes,omitempty" db:"pharmacy_notes"`
	IsElectronic    bool        `json:"isElectronic" db:"is_electronic"`
}

// CreatePrescriptionRequest is the body of POST /medical/prescriptions.
type CreatePrescriptionRequest struct {
	PatientID       string       `json:"patientId" binding:"required"`
	MedicalReportID string       `json:"medicalReportId" binding:"omitempty,uuid"`
	Medications     []Medication `json:"medications" binding:"required,min=1,dive"`
	Diagnosis       string       `json:"diagnosis"`
	Instructions    string       `json:"instructions"`
	ValidUntil      *Date        `json:"validUntil"`
	Status          string       `json:"status" binding:"omitempty,oneof=active completed cancelled expired"`
	PharmacyNotes   string       `json:"pharmacyNotes"`
	IsElectronic    *bool        `json:"isElectronic"`
}

// PrescriptionView is a prescription with its doctor and patient projections.
type PrescriptionView struct {
	Prescription
	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
	Patient *PatientSummary `json:"patient,omitempty"`
}
