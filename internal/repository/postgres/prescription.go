package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{NewBaseRepository(db)}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			id, patient_id, doctor_id, medical_report_id, prescription_id, medications,
			diagnosis, instructions, valid_until, status, pharmacy_notes, is_electronic,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	p.Touch(time.Now().UTC())

	_, err := r.conn(ctx).ExecContext(ctx, query,
		p.ID,
		p.PatientID,
		p.DoctorID,
		p.MedicalReportID,
		p.PrescriptionID,
		p.Medications,
		p.Diagnosis,
		p.Instructions,
		p.ValidUntil,
		p.Status,
		p.PharmacyNotes,
		p.IsElectronic,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return wrapErr("create prescription", err)
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var p model.Prescription
	err := sqlx.GetContext(ctx, r.conn(ctx), &p, `SELECT * FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("get prescription", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*model.Prescription, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.conn(ctx), &total,
		`SELECT COUNT(*) FROM prescriptions WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, 0, wrapErr("count prescriptions", err)
	}

	query := `
		SELECT * FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var prescriptions []*model.Prescription
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &prescriptions, query, patientID, limit, offset); err != nil {
		return nil, 0, wrapErr("list prescriptions", err)
	}
	return prescriptions, total, nil
}
