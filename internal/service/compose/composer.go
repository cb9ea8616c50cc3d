// Package compose builds the read models returned by the API. Each method
// reaches one table per call and batches lookups across a page of rows.
package compose

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type Composer struct {
	accounts repository.AccountRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func New(accounts repository.AccountRepository, doctors repository.DoctorRepository,
	patients repository.PatientRepository) *Composer {
	return &Composer{accounts: accounts, doctors: doctors, patients: patients}
}

// Doctors joins each profile with its account.
func (c *Composer) Doctors(ctx context.Context, profiles []*model.DoctorProfile) ([]*model.DoctorView, error) {
	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.AccountID)
	}
	accounts, err := c.accountsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*model.DoctorView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, &model.DoctorView{DoctorProfile: *p, User: accounts[p.AccountID]})
	}
	return views, nil
}

// Patients joins each profile with its account and primary doctor.
func (c *Composer) Patients(ctx context.Context, profiles []*model.PatientProfile) ([]*model.PatientView, error) {
	accountIDs := make([]uuid.UUID, 0, len(profiles))
	var doctorIDs []uuid.UUID
	for _, p := range profiles {
		accountIDs = append(accountIDs, p.AccountID)
		if p.PrimaryDoctorID != nil {
			doctorIDs = append(doctorIDs, *p.PrimaryDoctorID)
		}
	}

	accounts, err := c.accountsByID(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	doctors, err := c.DoctorSummaries(ctx, doctorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*model.PatientView, 0, len(profiles))
	for _, p := range profiles {
		v := &model.PatientView{PatientProfile: *p, User: accounts[p.AccountID]}
		if p.PrimaryDoctorID != nil {
			v.PrimaryDoctor = doctors[*p.PrimaryDoctorID]
		}
		views = append(views, v)
	}
	return views, nil
}

// DoctorSummaries maps doctor profile ids to their projections. Unknown ids
// are absent from the result.
func (c *Composer) DoctorSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.DoctorSummary, error) {
	out := make(map[uuid.UUID]*model.DoctorSummary)
	ids = unique(ids)
	if len(ids) == 0 {
		return out, nil
	}

	profiles, err := c.doctors.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	views, err := c.Doctors(ctx, profiles)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		out[v.ID] = v.Summary()
	}
	return out, nil
}

// PatientSummaries maps patient profile ids to their projections.
func (c *Composer) PatientSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.PatientSummary, error) {
	out := make(map[uuid.UUID]*model.PatientSummary)
	ids = unique(ids)
	if len(ids) == 0 {
		return out, nil
	}

	profiles, err := c.patients.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}
	accountIDs := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		accountIDs = append(accountIDs, p.AccountID)
	}
	accounts, err := c.accountsByID(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		v := model.PatientView{PatientProfile: *p, User: accounts[p.AccountID]}
		out[p.ID] = v.Summary()
	}
	return out, nil
}

func (c *Composer) accountsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Account, error) {
	out := make(map[uuid.UUID]*model.Account)
	ids = unique(ids)
	if len(ids) == 0 {
		return out, nil
	}
	accounts, err := c.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Reports attaches doctor and patient projections to each report.
func (c *Composer) Reports(ctx context.Context, reports []*model.MedicalReport) ([]*model.ReportView, error) {
	doctorIDs := make([]uuid.UUID, 0, len(reports))
	patientIDs := make([]uuid.UUID, 0, len(reports))
	for _, r := range reports {
		doctorIDs = append(doctorIDs, r.DoctorID)
		patientIDs = append(patientIDs, r.PatientID)
	}
	doctors, patients, err := c.summaries(ctx, doctorIDs, patientIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*model.ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, &model.ReportView{
			MedicalReport: *r,
			Doctor:        doctors[r.DoctorID],
			Patient:       patients[r.PatientID],
		})
	}
	return views, nil
}

// Prescriptions attaches doctor and patient projections to each prescription.
func (c *Composer) Prescriptions(ctx context.Context, prescriptions []*model.Prescription) ([]*model.PrescriptionView, error) {
	doctorIDs := make([]uuid.UUID, 0, len(prescriptions))
	patientIDs := make([]uuid.UUID, 0, len(prescriptions))
	for _, p := range prescriptions {
		doctorIDs = append(doctorIDs, p.DoctorID)
		patientIDs = append(patientIDs, p.PatientID)
	}
	doctors, patients, err := c.summaries(ctx, doctorIDs, patientIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*model.PrescriptionView, 0, len(prescriptions))
	for _, p := range prescriptions {
		views = append(views, &model.PrescriptionView{
			Prescription: *p,
			Doctor:       doctors[p.DoctorID],
			Patient:      patients[p.PatientID],
		})
	}
	return views, nil
}

func (c *Composer) summaries(ctx context.Context, doctorIDs, patientIDs []uuid.UUID) (
	map[uuid.UUID]*model.DoctorSummary, map[uuid.UUID]*model.PatientSummary, error) {
	doctors, err := c.DoctorSummaries(ctx, doctorIDs)
	if err != nil {
		return nil, nil, err
	}
	patients, err := c.PatientSummaries(ctx, patientIDs)
	if err != nil {
		return nil, nil, err
	}
	return doctors, patients, nil
}
