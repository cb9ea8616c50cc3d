package doctor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// SearchLimit caps doctor search results.
const SearchLimit = 20

const msgNotFound = "Doctor not found"

type Service struct {
	tx       repository.Transactor
	accounts repository.AccountRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	composer *compose.Composer
	guard    *access.Guard
	validate validator.Validator
}

func NewService(tx repository.Transactor, accounts repository.AccountRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository,
	composer *compose.Composer, guard *access.Guard, validate validator.Validator) *Service {
	return &Service{
		tx:       tx,
		accounts: accounts,
		doctors:  doctors,
		patients: patients,
		composer: composer,
		guard:    guard,
		validate: validate,
	}
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]*model.DoctorView, int, error) {
	doctors, total, err := s.doctors.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list doctors", err)
	}
	views, err := s.composer.Doctors(ctx, doctors)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list doctors", err)
	}
	return views, total, nil
}

// Search filters by specialization and department in the store, then by
// name when a free-text query is given.
func (s *Service) Search(ctx context.Context, q model.DoctorSearch) ([]*model.DoctorView, error) {
	doctors, err := s.doctors.Search(ctx, strings.TrimSpace(q.Specialization), strings.TrimSpace(q.Department), SearchLimit)
	if err != nil {
		return nil, apperrors.Internal("Failed to search doctors", err)
	}
	views, err := s.composer.Doctors(ctx, doctors)
	if err != nil {
		return nil, apperrors.Internal("Failed to search doctors", err)
	}

	query := strings.ToLower(strings.TrimSpace(q.Query))
	if query == "" {
		return views, nil
	}
	filtered := views[:0]
	for _, v := range views {
		if v.User == nil {
			continue
		}
		if strings.Contains(strings.ToLower(v.User.FirstName), query) ||
			strings.Contains(strings.ToLower(v.User.LastName), query) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DoctorView, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.composer.Doctors(ctx, []*model.DoctorProfile{doctor})
	if err != nil {
		return nil, apperrors.Internal("Failed to get doctor", err)
	}
	return views[0], nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgNotFound, err)
		}
		return nil, apperrors.Internal("Failed to get doctor", err)
	}
	return doctor, nil
}

// Patients pages through the distinct patients this doctor has written
// reports for.
func (s *Service) Patients(ctx context.Context, id uuid.UUID, p pagination.Params) ([]*model.PatientView, int, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, 0, err
	}
	patients, total, err := s.patients.ListByDoctor(ctx, id, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list doctor patients", err)
	}
	views, err := s.composer.Patients(ctx, patients)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list doctor patients", err)
	}
	return views, total, nil
}

// Update applies a mixed payload to the doctor's account and profile. Keys
// are routed by Partition; both records are validated before either is
// written, and both writes share one transaction.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, payload Payload) (*model.DoctorView, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	target := access.Target{Kind: access.KindDoctorProfile, ID: doctor.ID, DoctorID: doctor.ID}
	if err := s.guard.Check(ctx, actor, access.ActionUpdate, target); err != nil {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, doctor.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgNotFound, err)
		}
		return nil, apperrors.Internal("Failed to update doctor", err)
	}

	accountFields, doctorFields := Partition(payload)
	if err := accountFields.ApplyTo(account); err != nil {
		return nil, apperrors.BadRequest("Invalid request body", err)
	}
	if err := doctorFields.ApplyTo(doctor); err != nil {
		return nil, apperrors.BadRequest("Invalid request body", err)
	}
	account.Email = model.NormalizeEmail(account.Email)

	if err := s.validate.Validate(account); err != nil {
		return nil, apperrors.BadRequest("Validation failed", err)
	}
	if err := s.validate.Validate(doctor); err != nil {
		return nil, apperrors.BadRequest("Validation failed", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if len(accountFields) > 0 {
			if err := s.accounts.Update(ctx, account); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return apperrors.BadRequest("User with this email already exists", err)
				}
				return err
			}
		}
		if len(doctorFields) > 0 {
			if err := s.doctors.Update(ctx, doctor); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return apperrors.BadRequest("Doctor with this license number already exists", err)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to update doctor", err)
	}

	log.Info().
		Str("doctor_id", doctor.ID.String()).
		Int("account_fields", len(accountFields)).
		Int("doctor_fields", len(doctorFields)).
		Msg("doctor profile updated")

	return &model.DoctorView{DoctorProfile: *doctor, User: account}, nil
}
