package medical

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	"github.com/jwalitptl/hospital-api/internal/service/sequence"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

// DefaultValidity applies when a prescription is created without validUntil.
const DefaultValidity = 30 * 24 * time.Hour

const (
	msgReportNotFound       = "Medical report not found"
	msgPrescriptionNotFound = "Prescription not found"
)

type Service struct {
	tx            repository.Transactor
	patients      repository.PatientRepository
	reports       repository.MedicalReportRepository
	prescriptions repository.PrescriptionRepository
	assigner      *sequence.Assigner
	composer      *compose.Composer
	guard         *access.Guard
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewService(tx repository.Transactor, patients repository.PatientRepository,
	reports repository.MedicalReportRepository, prescriptions repository.PrescriptionRepository,
	assigner *sequence.Assigner, composer *compose.Composer, guard *access.Guard, m *metrics.Metrics) *Service {
	return &Service{
		tx:            tx,
		patients:      patients,
		reports:       reports,
		prescriptions: prescriptions,
		assigner:      assigner,
		composer:      composer,
		guard:         guard,
		metrics:       m,
		now:           time.Now,
	}
}

// MyReports lists the calling patient's reports.
func (s *Service) MyReports(ctx context.Context, actor access.Actor, p pagination.Params) ([]*model.ReportView, int, error) {
	if actor.PatientID == nil {
		return nil, 0, apperrors.NotFound("Patient profile not found", nil)
	}
	reports, total, err := s.reports.ListByPatient(ctx, *actor.PatientID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get medical reports", err)
	}
	views, err := s.composer.Reports(ctx, reports)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get medical reports", err)
	}
	return views, total, nil
}

// MyPrescriptions lists the calling patient's prescriptions.
func (s *Service) MyPrescriptions(ctx context.Context, actor access.Actor, p pagination.Params) ([]*model.PrescriptionView, int, error) {
	if actor.PatientID == nil {
		return nil, 0, apperrors.NotFound("Patient profile not found", nil)
	}
	prescriptions, total, err := s.prescriptions.ListByPatient(ctx, *actor.PatientID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get prescriptions", err)
	}
	views, err := s.composer.Prescriptions(ctx, prescriptions)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to get prescriptions", err)
	}
	return views, total, nil
}

// CreateReport issues a report from the calling doctor. The doctor is always
// the caller regardless of the request body.
func (s *Service) CreateReport(ctx context.Context, actor access.Actor, req *model.CreateReportRequest) (*model.ReportView, error) {
	if actor.DoctorID == nil {
		return nil, apperrors.NotFound("Doctor profile not found", nil)
	}
	patient, err := s.resolvePatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	report := &model.MedicalReport{
		PatientID:       patient.ID,
		DoctorID:        *actor.DoctorID,
		ReportType:      req.ReportType,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Diagnosis:       req.Diagnosis,
		Symptoms:        req.Symptoms,
		VitalSigns:      req.VitalSigns,
		LabResults:      req.LabResults,
		TreatmentPlan:   req.TreatmentPlan,
		Recommendations: req.Recommendations,
		FollowUpDate:    req.FollowUpDate,
		Attachments:     req.Attachments,
		IsConfidential:  req.IsConfidential,
		Status:          req.Status,
	}
	report.ID = uuid.New()
	if report.Status == "" {
		report.Status = model.ReportStatusFinalized
	}

	if err := s.guard.Check(ctx, actor, access.ActionCreate, access.ReportTarget(report)); err != nil {
		return nil, err
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.Internal("Failed to create medical report", err)
	}
	s.countCreated(access.KindReport)

	log.Info().
		Str("report_id", report.ID.String()).
		Str("doctor_id", report.DoctorID.String()).
		Str("patient_id", patient.PatientID).
		Msg("medical report created")

	return s.composeReport(ctx, report)
}

// CreatePrescription issues a prescription from the calling doctor and
// assigns its RX number in the same transaction as the insert.
func (s *Service) CreatePrescription(ctx context.Context, actor access.Actor, req *model.CreatePrescriptionRequest) (*model.PrescriptionView, error) {
	if actor.DoctorID == nil {
		return nil, apperrors.NotFound("Doctor profile not found", nil)
	}
	patient, err := s.resolvePatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	rx := &model.Prescription{
		PatientID:     patient.ID,
		DoctorID:      *actor.DoctorID,
		Medications:   withMedicationDefaults(req.Medications),
		Diagnosis:     req.Diagnosis,
		Instructions:  req.Instructions,
		Status:        req.Status,
		PharmacyNotes: req.PharmacyNotes,
		IsElectronic:  true,
	}
	rx.ID = uuid.New()
	if req.ValidUntil != nil {
		rx.ValidUntil = *req.ValidUntil
	} else {
		rx.ValidUntil = model.NewDate(s.now().Add(DefaultValidity))
	}
	if req.IsElectronic != nil {
		rx.IsElectronic = *req.IsElectronic
	}
	if rx.Status == "" {
		rx.Status = model.PrescriptionStatusActive
	}

	if req.MedicalReportID != "" {
		reportID, err := uuid.Parse(req.MedicalReportID)
		if err != nil {
			return nil, apperrors.BadRequest("Invalid medical report id", err)
		}
		report, err := s.reports.Get(ctx, reportID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound(msgReportNotFound, err)
			}
			return nil, apperrors.Internal("Failed to create prescription", err)
		}
		if report.PatientID != patient.ID {
			return nil, apperrors.BadRequest("Medical report belongs to another patient", nil)
		}
		rx.MedicalReportID = &report.ID
	}

	if err := s.guard.Check(ctx, actor, access.ActionCreate, access.PrescriptionTarget(rx)); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.assigner.AssignPrescriptionID(ctx, rx); err != nil {
			return err
		}
		return s.prescriptions.Create(ctx, rx)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("Prescription identifier already assigned", err)
		}
		return nil, apperrors.Internal("Failed to create prescription", err)
	}
	s.countCreated(access.KindPrescription)

	log.Info().
		Str("prescription_id", rx.PrescriptionID).
		Str("doctor_id", rx.DoctorID.String()).
		Str("patient_id", patient.PatientID).
		Msg("prescription created")

	return s.composePrescription(ctx, rx)
}

func withMedicationDefaults(in []model.Medication) model.Medications {
	out := make(model.Medications, len(in))
	for i, m := range in {
		if m.IsGenericAllowed == nil {
			allowed := true
			m.IsGenericAllowed = &allowed
		}
		out[i] = m
	}
	return out
}

// GetReport returns the report when the caller passes the ownership check.
func (s *Service) GetReport(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.ReportView, error) {
	report, err := s.reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgReportNotFound, err)
		}
		return nil, apperrors.Internal("Failed to get report details", err)
	}
	if err := s.guard.Check(ctx, actor, access.ActionRead, access.ReportTarget(report)); err != nil {
		return nil, err
	}
	return s.composeReport(ctx, report)
}

// GetPrescription returns the prescription when the caller passes the
// ownership check.
func (s *Service) GetPrescription(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.PrescriptionView, error) {
	rx, err := s.prescriptions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgPrescriptionNotFound, err)
		}
		return nil, apperrors.Internal("Failed to get prescription details", err)
	}
	if err := s.guard.Check(ctx, actor, access.ActionRead, access.PrescriptionTarget(rx)); err != nil {
		return nil, err
	}
	return s.composePrescription(ctx, rx)
}

// resolvePatient accepts a patient profile id or a PAT number.
func (s *Service) resolvePatient(ctx context.Context, ref string) (*model.PatientProfile, error) {
	ref = strings.TrimSpace(ref)

	var (
		patient *model.PatientProfile
		err     error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		patient, err = s.patients.Get(ctx, id)
	} else {
		patient, err = s.patients.GetByPatientID(ctx, strings.ToUpper(ref))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal("Failed to load patient", err)
	}
	return patient, nil
}

func (s *Service) composeReport(ctx context.Context, report *model.MedicalReport) (*model.ReportView, error) {
	views, err := s.composer.Reports(ctx, []*model.MedicalReport{report})
	if err != nil {
		return nil, apperrors.Internal("Failed to load report details", err)
	}
	return views[0], nil
}

func (s *Service) composePrescription(ctx context.Context, rx *model.Prescription) (*model.PrescriptionView, error) {
	views, err := s.composer.Prescriptions(ctx, []*model.Prescription{rx})
	if err != nil {
		return nil, apperrors.Internal("Failed to load prescription details", err)
	}
	return views[0], nil
}

func (s *Service) countCreated(kind access.Kind) {
	if s.metrics != nil {
		s.metrics.RecordsCreated.WithLabelValues(string(kind)).Inc()
	}
}
