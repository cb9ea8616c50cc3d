package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// satellite is the role profile persisted together with a new account.
type satellite interface {
	save(ctx context.Context, s *Service) error
}

// newProfile selects the satellite for role. It runs before any write, so a
// rejected doctor registration leaves nothing behind.
func newProfile(role model.Role, account *model.Account, req *model.RegisterRequest) (satellite, error) {
	switch role {
	case model.RoleDoctor:
		specialization := strings.TrimSpace(req.Specialization)
		license := strings.TrimSpace(req.LicenseNumber)
		department := strings.TrimSpace(req.Department)
		if specialization == "" || license == "" || department == "" {
			return nil, apperrors.BadRequest(msgDoctorFields, nil)
		}
		return doctorSatellite{&model.DoctorProfile{
			AccountID:         account.ID,
			Specialization:    specialization,
			LicenseNumber:     license,
			Department:        department,
			YearsOfExperience: req.YearsOfExperience,
		}}, nil

	case model.RolePatient:
		return patientSatellite{&model.PatientProfile{AccountID: account.ID}}, nil

	case model.RoleAdmin:
		return noSatellite{}, nil
	}
	return nil, apperrors.BadRequest("Invalid role", nil)
}

type doctorSatellite struct{ profile *model.DoctorProfile }

func (d doctorSatellite) save(ctx context.Context, s *Service) error {
	if err := s.doctors.Create(ctx, d.profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.BadRequest("Doctor with this license number already exists", err)
		}
		return err
	}
	return nil
}

type patientSatellite struct{ profile *model.PatientProfile }

func (p patientSatellite) save(ctx context.Context, s *Service) error {
	if err := s.assigner.AssignPatientID(ctx, p.profile); err != nil {
		return err
	}
	if err := s.patients.Create(ctx, p.profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.BadRequest("Patient identifier already assigned", err)
		}
		return err
	}
	return nil
}

type noSatellite struct{}

func (noSatellite) save(context.Context, *Service) error { return nil }
