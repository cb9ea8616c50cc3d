package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.PatientProfile) error {
	query := `
		INSERT INTO patient_profiles (
			id, account_id, patient_id, emergency_contact, blood_group, allergies,
			chronic_conditions, current_medications, insurance_info, medical_history,
			primary_doctor_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	patient.Touch(time.Now().UTC())

	_, err := r.conn(ctx).ExecContext(ctx, query,
		patient.ID,
		patient.AccountID,
		patient.PatientID,
		patient.EmergencyContact,
		patient.BloodGroup,
		patient.Allergies,
		patient.ChronicConditions,
		patient.CurrentMedications,
		patient.InsuranceInfo,
		patient.MedicalHistory,
		patient.PrimaryDoctorID,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	return wrapErr("create patient profile", err)
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	var patient model.PatientProfile
	err := sqlx.GetContext(ctx, r.conn(ctx), &patient, `SELECT * FROM patient_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("get patient profile", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.PatientProfile, error) {
	var patient model.PatientProfile
	err := sqlx.GetContext(ctx, r.conn(ctx), &patient, `SELECT * FROM patient_profiles WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, wrapErr("get patient profile by account", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPatientID(ctx context.Context, patientID string) (*model.PatientProfile, error) {
	var patient model.PatientProfile
	err := sqlx.GetContext(ctx, r.conn(ctx), &patient, `SELECT * FROM patient_profiles WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, wrapErr("get patient profile by patient id", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.PatientProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var patients []*model.PatientProfile
	err := sqlx.SelectContext(ctx, r.conn(ctx), &patients,
		`SELECT * FROM patient_profiles WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		return nil, wrapErr("get patient profiles", err)
	}
	return patients, nil
}

func (r *patientRepository) List(ctx context.Context, limit, offset int) ([]*model.PatientProfile, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM patient_profiles`); err != nil {
		return nil, 0, wrapErr("count patient profiles", err)
	}

	var patients []*model.PatientProfile
	err := sqlx.SelectContext(ctx, r.conn(ctx), &patients,
		`SELECT * FROM patient_profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("list patient profiles", err)
	}
	return patients, total, nil
}

func (r *patientRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*model.PatientProfile, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.conn(ctx), &total,
		`SELECT COUNT(DISTINCT patient_id) FROM medical_reports WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return nil, 0, wrapErr("count doctor patients", err)
	}

	query := `
		SELECT p.* FROM patient_profiles p
		WHERE p.id IN (SELECT DISTINCT patient_id FROM medical_reports WHERE doctor_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	var patients []*model.PatientProfile
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &patients, query, doctorID, limit, offset); err != nil {
		return nil, 0, wrapErr("list doctor patients", err)
	}
	return patients, total, nil
}

func (r *patientRepository) Search(ctx context.Context, q string, limit int) ([]*model.PatientProfile, error) {
	query := `
		SELECT p.* FROM patient_profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE a.first_name ILIKE $1 OR a.last_name ILIKE $1 OR a.email ILIKE $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`
	var patients []*model.PatientProfile
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &patients, query, "%"+escapeLike(q)+"%", limit); err != nil {
		return nil, wrapErr("search patient profiles", err)
	}
	return patients, nil
}
