package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type medicalReportRepository struct {
	BaseRepository
}

func NewMedicalReportRepository(db *sqlx.DB) repository.MedicalReportRepository {
	return &medicalReportRepository{NewBaseRepository(db)}
}

func (r *medicalReportRepository) Create(ctx context.Context, report *model.MedicalReport) error {
	query := `
		INSERT INTO medical_reports (
			id, patient_id, doctor_id, report_type, title, description, diagnosis,
			symptoms, vital_signs, lab_results, treatment_plan, recommendations,
			follow_up_date, attachments, is_confidential, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	report.Touch(time.Now().UTC())

	_, err := r.conn(ctx).ExecContext(ctx, query,
		report.ID,
		report.PatientID,
		report.DoctorID,
		report.ReportType,
		report.Title,
		report.Description,
		report.Diagnosis,
		report.Symptoms,
		report.VitalSigns,
		report.LabResults,
		report.TreatmentPlan,
		report.Recommendations,
		report.FollowUpDate,
		report.Attachments,
		report.IsConfidential,
		report.Status,
		report.CreatedAt,
		report.UpdatedAt,
	)
	return wrapErr("create medical report", err)
}

func (r *medicalReportRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalReport, error) {
	var report model.MedicalReport
	err := sqlx.GetContext(ctx, r.conn(ctx), &report, `SELECT * FROM medical_reports WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("get medical report", err)
	}
	return &report, nil
}

func (r *medicalReportRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*model.MedicalReport, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.conn(ctx), &total,
		`SELECT COUNT(*) FROM medical_reports WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, 0, wrapErr("count medical reports", err)
	}

	query := `
		SELECT * FROM medical_reports
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reports []*model.MedicalReport
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &reports, query, patientID, limit, offset); err != nil {
		return nil, 0, wrapErr("list medical reports", err)
	}
	return reports, total, nil
}
