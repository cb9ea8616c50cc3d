package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

// SearchLimit caps patient search results.
const SearchLimit = 20

type Service struct {
	patients      repository.PatientRepository
	reports       repository.MedicalReportRepository
	prescriptions repository.PrescriptionRepository
	composer      *compose.Composer
}

func NewService(patients repository.PatientRepository, reports repository.MedicalReportRepository,
	prescriptions repository.PrescriptionRepository, composer *compose.Composer) *Service {
	return &Service{
		patients:      patients,
		reports:       reports,
		prescriptions: prescriptions,
		composer:      composer,
	}
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]*model.PatientView, int, error) {
	patients, total, err := s.patients.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list patients", err)
	}
	views, err := s.composer.Patients(ctx, patients)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list patients", err)
	}
	return views, total, nil
}

// Search matches name or email. Profiles whose account cannot be loaded are
// dropped from the result.
func (s *Service) Search(ctx context.Context, query string) ([]*model.PatientView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("Search query is required", nil)
	}

	patients, err := s.patients.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, apperrors.Internal("Failed to search patients", err)
	}
	views, err := s.composer.Patients(ctx, patients)
	if err != nil {
		return nil, apperrors.Internal("Failed to search patients", err)
	}

	out := make([]*model.PatientView, 0, len(views))
	for _, v := range views {
		if v.User != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PatientView, error) {
	patient, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.composer.Patients(ctx, []*model.PatientProfile{patient})
	if err != nil {
		return nil, apperrors.Internal("Failed to get patient", err)
	}
	return views[0], nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal("Failed to get patient", err)
	}
	return patient, nil
}

// MedicalHistory pages through the patient's reports, newest first.
func (s *Service) MedicalHistory(ctx context.Context, id uuid.UUID, p pagination.Params) ([]*model.ReportView, int, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, 0, err
	}
	reports, total, err := s.reports.ListByPatient(ctx, id, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get medical history", err)
	}
	views, err := s.composer.Reports(ctx, reports)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get medical history", err)
	}
	return views, total, nil
}

func (s *Service) Prescriptions(ctx context.Context, id uuid.UUID, p pagination.Params) ([]*model.PrescriptionView, int, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, 0, err
	}
	prescriptions, total, err := s.prescriptions.ListByPatient(ctx, id, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get prescriptions", err)
	}
	views, err := s.composer.Prescriptions(ctx, prescriptions)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get prescriptions", err)
	}
	return views, total, nil
}
