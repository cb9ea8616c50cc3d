package testutil

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// SeedAccount inserts an active account and panics on failure.
func (s *Store) SeedAccount(role model.Role, firstName, lastName, email string) *model.Account {
	a := &model.Account{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}
	if err := s.Accounts().Create(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}

// SeedDoctor inserts a doctor account and its profile.
func (s *Store) SeedDoctor(firstName, lastName, email, specialization, department, license string) (*model.Account, *model.DoctorProfile) {
	a := s.SeedAccount(model.RoleDoctor, firstName, lastName, email)
	d := &model.DoctorProfile{
		AccountID:      a.ID,
		Specialization: specialization,
		Department:     department,
		LicenseNumber:  license,
	}
	if err := s.Doctors().Create(context.Background(), d); err != nil {
		panic(err)
	}
	return a, d
}

// SeedPatient inserts a patient account and its profile with the given
// patient id.
func (s *Store) SeedPatient(firstName, lastName, email, patientID string) (*model.Account, *model.PatientProfile) {
	a := s.SeedAccount(model.RolePatient, firstName, lastName, email)
	p := &model.PatientProfile{AccountID: a.ID, PatientID: patientID}
	if err := s.Patients().Create(context.Background(), p); err != nil {
		panic(err)
	}
	return a, p
}

// SeedReport inserts a minimal finalized report from doctor to patient.
func (s *Store) SeedReport(doctor *model.DoctorProfile, patient *model.PatientProfile, title string) *model.MedicalReport {
	r := &model.MedicalReport{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		ReportType:  model.ReportTypeConsultation,
		Title:       title,
		Description: title,
		Status:      model.ReportStatusFinalized,
	}
	if err := s.Reports().Create(context.Background(), r); err != nil {
		panic(err)
	}
	return r
}
