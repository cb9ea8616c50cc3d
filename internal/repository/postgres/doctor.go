package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{NewBaseRepository(db)}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (
			id, account_id, specialization, license_number, years_of_experience,
			education, certifications, department, schedule, consultation_fee,
			bio, languages, is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	doctor.Touch(time.Now().UTC())

	_, err := r.conn(ctx).ExecContext(ctx, query,
		doctor.ID,
		doctor.AccountID,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.YearsOfExperience,
		doctor.Education,
		doctor.Certifications,
		doctor.Department,
		doctor.Schedule,
		doctor.ConsultationFee,
		doctor.Bio,
		doctor.Languages,
		doctor.IsVerified,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	return wrapErr("create doctor profile", err)
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	var doctor model.DoctorProfile
	err := sqlx.GetContext(ctx, r.conn(ctx), &doctor, `SELECT * FROM doctor_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("get doctor profile", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.DoctorProfile, error) {
	var doctor model.DoctorProfile
	err := sqlx.GetContext(ctx, r.conn(ctx), &doctor, `SELECT * FROM doctor_profiles WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, wrapErr("get doctor profile by account", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.DoctorProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var doctors []*model.DoctorProfile
	err := sqlx.SelectContext(ctx, r.conn(ctx), &doctors,
		`SELECT * FROM doctor_profiles WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		return nil, wrapErr("get doctor profiles", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.DoctorProfile) error {
	query := `
		UPDATE doctor_profiles SET
			specialization = $1, license_number = $2, years_of_experience = $3,
			education = $4, certifications = $5, department = $6, schedule = $7,
			consultation_fee = $8, bio = $9, languages = $10, is_verified = $11, updated_at = $12
		WHERE id = $13
	`
	doctor.UpdatedAt = time.Now().UTC()

	res, err := r.conn(ctx).ExecContext(ctx, query,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.YearsOfExperience,
		doctor.Education,
		doctor.Certifications,
		doctor.Department,
		doctor.Schedule,
		doctor.ConsultationFee,
		doctor.Bio,
		doctor.Languages,
		doctor.IsVerified,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return wrapErr("update doctor profile", err)
	}
	return expectRow(res, "update doctor profile")
}

func (r *doctorRepository) List(ctx context.Context, limit, offset int) ([]*model.DoctorProfile, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM doctor_profiles`); err != nil {
		return nil, 0, wrapErr("count doctor profiles", err)
	}

	var doctors []*model.DoctorProfile
	err := sqlx.SelectContext(ctx, r.conn(ctx), &doctors,
		`SELECT * FROM doctor_profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("list doctor profiles", err)
	}
	return doctors, total, nil
}

func (r *doctorRepository) Search(ctx context.Context, specialization, department string, limit int) ([]*model.DoctorProfile, error) {
	query := `
		SELECT * FROM doctor_profiles
		WHERE specialization ILIKE $1 AND department ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	var doctors []*model.DoctorProfile
	err := sqlx.SelectContext(ctx, r.conn(ctx), &doctors, query,
		"%"+escapeLike(specialization)+"%",
		"%"+escapeLike(department)+"%",
		limit,
	)
	if err != nil {
		return nil, wrapErr("search doctor profiles", err)
	}
	return doctors, nil
}
