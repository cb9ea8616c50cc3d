package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusDraft     = "draft"
	ReportStatusFinalized = "finalized"
	ReportStatusAmended   = "amended"
)

const (
	ReportTypeConsultation = "consultation"
	ReportTypeLabTest      = "lab_test"
	ReportTypeImaging      = "imaging"
	ReportTypeProcedure    = "procedure"
	ReportTypeEmergency    = "emergency"
	ReportTypeFollowUp     = "follow_up"
)

type Diagnosis struct {
	Primary    string   `json:"primary,omitempty"`
	Secondary  []string `json:"secondary,omitempty"`
	ICD10Codes []string `json:"icd10Codes,omitempty"`
}

func (d Diagnosis) Value() (driver.Value, error) { return jsonValue(d) }
func (d *Diagnosis) Scan(src interface{}) error  { return scanJSON(src, d) }

type VitalSigns struct {
	BloodPressure    string   `json:"bloodPressure,omitempty"`
	HeartRate        *float64 `json:"heartRate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	RespiratoryRate  *float64 `json:"respiratoryRate,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	Height           *float64 `json:"height,omitempty"`
	BMI              *float64 `json:"bmi,omitempty"`
}

func (v VitalSigns) Value() (driver.Value, error) { return jsonValue(v) }
func (v *VitalSigns) Scan(src interface{}) error  { return scanJSON(src, v) }

type LabResult struct {
	TestName    string `json:"testName" binding:"required" validate:"required"`
	Result      string `json:"result" binding:"required" validate:"required"`
	NormalRange string `json:"normalRange,omitempty"`
	Unit        string `json:"unit,omitempty"`
	IsAbnormal  bool   `json:"isAbnormal"`
	Notes       string `json:"notes,omitempty"`
}

type LabResults []LabResult

func (l LabResults) Value() (driver.Value, error) { return listValue([]LabResult(l)) }
func (l LabResults) MarshalJSON() ([]byte, error) { return listJSON([]LabResult(l)) }
func (l *LabResults) Scan(src interface{}) error  { return scanJSON(src, l) }

type Attachment struct {
	FileName   string     `json:"fileName" binding:"required" validate:"required"`
	FileURL    string     `json:"fileUrl" binding:"required" validate:"required"`
	FileType   string     `json:"fileType,omitempty"`
	UploadDate *time.Time `json:"uploadDate,omitempty"`
}

type Attachments []Attachment

func (a Attachments) Value() (driver.Value, error) { return listValue([]Attachment(a)) }
func (a Attachments) MarshalJSON() ([]byte, error) { return listJSON([]Attachment(a)) }
func (a *Attachments) Scan(src interface{}) error  { return scanJSON(src, a) }

// MedicalReport is issued by exactly one doctor about exactly one patient.
// PatientID and DoctorID reference profile ids and never change.
type MedicalReport struct {
	Base
	PatientID       uuid.UUID   `json:"patientId" db:"patient_id"`
	DoctorID        uuid.UUID   `json:"doctorId" db:"doctor_id"`
	ReportType      string      `json:"reportType" db:"report_type"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	Diagnosis       Diagnosis   `json:"diagnosis" db:"diagnosis"`
	Symptoms        StringList  `json:"symptoms" db:"symptoms"`
	VitalSigns      VitalSigns  `json:"vitalSigns" db:"vital_signs"`
	LabResults      LabResults  `json:"labResults" db:"lab_results"`
	TreatmentPlan   string      `json:"treatmentPlan,omitempty" db:"treatment_plan"`
	Recommendations StringList  `json:"recommendations" db:"recommendations"`
	FollowUpDate    *Date       `json:"followUpDate,omitempty" db:"follow_up_date"`
	Attachments     Attachments `json:"attachments" db:"attachments"`
	IsConfidential  bool        `json:"isConfidential" db:"is_confidential"`
	Status          string      `json:"status" db:"status"`
}

// CreateReportRequest is the body of POST /medical/reports. Any doctor id in
// the payload is ignored.
type CreateReportRequest struct {
	PatientID       string       `json:"patientId" binding:"required"`
	ReportType      string       `json:"reportType" binding:"required,oneof=consultation lab_test imaging procedure emergency follow_up"`
	Title           string       `json:"title" binding:"required,max=200"`
	Description     string       `json:"description" binding:"required"`
	Diagnosis       Diagnosis    `json:"diagnosis"`
	Symptoms        []string     `json:"symptoms"`
	VitalSigns      VitalSigns   `json:"vitalSigns"`
	LabResults      []LabResult  `json:"labResults" binding:"dive"`
	TreatmentPlan   string       `json:"treatmentPlan"`
	Recommendations []string     `json:"recommendations"`
	FollowUpDate    *Date        `json:"followUpDate"`
	Attachments     []Attachment `json:"attachments" binding:"dive"`
	IsConfidential  bool         `json:"isConfidential"`
	Status          string       `json:"status" binding:"omitempty,oneof=draft finalized amended"`
}

// ReportView is a report with its doctor and patient projections.
type ReportView struct {
	MedicalReport
	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
	Patient *PatientSummary `json:"patient,omitempty"`
}
