package compose

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/testutil"
)

func TestPatients_WithPrimaryDoctor(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()
	_, doctor := store.SeedDoctor("John", "Smith", "dr.smith@x.com", "Cardiology", "Heart", "LIC-1")
	_, patient := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000001")
	patient.PrimaryDoctorID = &doctor.ID

	c := New(store.Accounts(), store.Doctors(), store.Patients())
	views, err := c.Patients(ctx, []*model.PatientProfile{patient})
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	require.NotNil(t, v.User)
	assert.Equal(t, "Jane", v.User.FirstName)
	require.NotNil(t, v.PrimaryDoctor)
	assert.Equal(t, "Smith", v.PrimaryDoctor.LastName)
	assert.Equal(t, "Cardiology", v.PrimaryDoctor.Specialization)
}

func TestDoctors_MissingAccount(t *testing.T) {
	store := testutil.NewStore()
	c := New(store.Accounts(), store.Doctors(), store.Patients())

	orphan := &model.DoctorProfile{AccountID: uuid.New(), Specialization: "Oncology"}
	views, err := c.Doctors(context.Background(), []*model.DoctorProfile{orphan})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].User)
	assert.Equal(t, "Oncology", views[0].Summary().Specialization)
}

func TestSummaries(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()
	_, doctor := store.SeedDoctor("John", "Smith", "dr.smith@x.com", "Cardiology", "Heart", "LIC-1")
	_, patient := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000007")

	c := New(store.Accounts(), store.Doctors(), store.Patients())

	doctors, err := c.DoctorSummaries(ctx, []uuid.UUID{doctor.ID, doctor.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "dr.smith@x.com", doctors[doctor.ID].Email)

	patients, err := c.PatientSummaries(ctx, []uuid.UUID{patient.ID})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "PAT000007", patients[patient.ID].PatientID)
	assert.Equal(t, "Doe", patients[patient.ID].LastName)

	empty, err := c.PatientSummaries(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReportsAndPrescriptions(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()
	_, doctor := store.SeedDoctor("John", "Smith", "dr.smith@x.com", "Cardiology", "Heart", "LIC-1")
	_, patient := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000007")
	report := store.SeedReport(doctor, patient, "Checkup")

	c := New(store.Accounts(), store.Doctors(), store.Patients())

	reports, err := c.Reports(ctx, []*model.MedicalReport{report})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Checkup", reports[0].Title)
	require.NotNil(t, reports[0].Doctor)
	assert.Equal(t, "Smith", reports[0].Doctor.LastName)
	require.NotNil(t, reports[0].Patient)
	assert.Equal(t, "PAT000007", reports[0].Patient.PatientID)

	rx := &model.Prescription{DoctorID: doctor.ID, PatientID: uuid.New(), PrescriptionID: "RX00000001"}
	prescriptions, err := c.Prescriptions(ctx, []*model.Prescription{rx})
	require.NoError(t, err)
	require.Len(t, prescriptions, 1)
	assert.NotNil(t, prescriptions[0].Doctor)
	assert.Nil(t, prescriptions[0].Patient)
}
