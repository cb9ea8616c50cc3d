package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	// Transactor runs fn inside a single transaction. Repositories called with
	// the ctx handed to fn join that transaction.
	Transactor interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// AccountRepository handles identity records
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error)
		Update(ctx context.Context, account *model.Account) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.DoctorProfile) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
		GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.DoctorProfile, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.DoctorProfile, error)
		Update(ctx context.Context, doctor *model.DoctorProfile) error
		List(ctx context.Context, limit, offset int) ([]*model.DoctorProfile, int, error)
		// Search matches specialization and department case-insensitively.
		// Empty filters match everything.
		Search(ctx context.Context, specialization, department string, limit int) ([]*model.DoctorProfile, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.PatientProfile) error
		Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
		GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.PatientProfile, error)
		GetByPatientID(ctx context.Context, patientID string) (*model.PatientProfile, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.PatientProfile, error)
		List(ctx context.Context, limit, offset int) ([]*model.PatientProfile, int, error)
		// ListByDoctor pages through the distinct patients that appear in the
		// doctor's medical reports.
		ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*model.PatientProfile, int, error)
		// Search matches the linked account's first name, last name or email.
		Search(ctx context.Context, query string, limit int) ([]*model.PatientProfile, error)
	}

	MedicalReportRepository interface {
		Create(ctx context.Context, report *model.MedicalReport) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalReport, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*model.MedicalReport, int, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*model.Prescription, int, error)
	}

	// Sequencer hands out strictly increasing values per named sequence.
	Sequencer interface {
		Next(ctx context.Context, name string) (int64, error)
	}
)
