package medical

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	"github.com/jwalitptl/hospital-api/internal/service/audit"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	"github.com/jwalitptl/hospital-api/internal/service/sequence"
	"github.com/jwalitptl/hospital-api/internal/testutil"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

type fixture struct {
	store   *testutil.Store
	svc     *Service
	metrics *metrics.Metrics

	doctor   access.Actor
	other    access.Actor
	patient7 access.Actor
	patient8 access.Actor
	admin    access.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	svc := NewService(store, store.Patients(), store.Reports(), store.Prescriptions(),
		sequence.NewAssigner(store.Sequencer(), m),
		compose.New(store.Accounts(), store.Doctors(), store.Patients()),
		access.NewGuard(access.NewPolicy(), audit.NewNop(), m), m)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	drAccount, dr := store.SeedDoctor("John", "Smith", "dr.smith@x.com", "Cardiology", "Heart", "LIC-1")
	otherAccount, other := store.SeedDoctor("Alice", "Jones", "dr.jones@x.com", "Neurology", "Brain", "LIC-2")
	p7Account, p7 := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000007")
	p8Account, p8 := store.SeedPatient("Mary", "Major", "mary@x.com", "PAT000008")
	adminAccount := store.SeedAccount(model.RoleAdmin, "Ada", "Admin", "admin@x.com")

	return &fixture{
		store:    store,
		svc:      svc,
		metrics:  m,
		doctor:   access.Actor{AccountID: drAccount.ID, Role: model.RoleDoctor, DoctorID: &dr.ID},
		other:    access.Actor{AccountID: otherAccount.ID, Role: model.RoleDoctor, DoctorID: &other.ID},
		patient7: access.Actor{AccountID: p7Account.ID, Role: model.RolePatient, PatientID: &p7.ID},
		patient8: access.Actor{AccountID: p8Account.ID, Role: model.RolePatient, PatientID: &p8.ID},
		admin:    access.Actor{AccountID: adminAccount.ID, Role: model.RoleAdmin},
	}
}

func reportRequest(patientRef string) *model.CreateReportRequest {
	return &model.CreateReportRequest{
		PatientID:   patientRef,
		ReportType:  model.ReportTypeConsultation,
		Title:       "Annual checkup",
		Description: "Routine visit",
		Diagnosis:   model.Diagnosis{Primary: "Healthy"},
		Symptoms:    []string{"none"},
	}
}

func prescriptionRequest(patientRef string) *model.CreatePrescriptionRequest {
	return &model.CreatePrescriptionRequest{
		PatientID: patientRef,
		Medications: []model.Medication{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
		},
		Diagnosis: "Infection",
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestReportScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReport(ctx, f.doctor, reportRequest("PAT000007"))
	require.NoError(t, err)
	assert.Equal(t, *f.doctor.DoctorID, created.DoctorID)
	assert.Equal(t, *f.patient7.PatientID, created.PatientID)
	assert.Equal(t, model.ReportStatusFinalized, created.Status)
	require.NotNil(t, created.Doctor)
	assert.Equal(t, "Smith", created.Doctor.LastName)
	require.NotNil(t, created.Patient)
	assert.Equal(t, "PAT000007", created.Patient.PatientID)

	mine, total, err := f.svc.MyReports(ctx, f.patient7, pagination.New(1, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	_, err = f.svc.GetReport(ctx, f.patient8, created.ID)
	appErr := requireCode(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "Access denied", appErr.Message)

	theirs, total, err := f.svc.MyReports(ctx, f.patient8, pagination.New(1, 10, 100))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, theirs)
}

func TestGetReport_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReport(ctx, f.doctor, reportRequest("PAT000007"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor access.Actor
		code  apperrors.ErrorCode
	}{
		{"issuing doctor", f.doctor, 0},
		{"owning patient", f.patient7, 0},
		{"admin", f.admin, 0},
		{"other doctor", f.other, apperrors.ErrForbidden},
		{"other patient", f.patient8, apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := f.svc.GetReport(ctx, tt.actor, created.ID)
			if tt.code == 0 {
				require.NoError(t, err)
				assert.Equal(t, created.ID, view.ID)
				return
			}
			requireCode(t, err, tt.code)
		})
	}

	_, err = f.svc.GetReport(ctx, f.admin, uuid.New())
	appErr := requireCode(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Medical report not found", appErr.Message)
}

func TestCreateReport_ByProfileID(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.CreateReport(context.Background(), f.doctor, reportRequest(f.patient8.PatientID.String()))
	require.NoError(t, err)
	assert.Equal(t, *f.patient8.PatientID, view.PatientID)
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.RecordsCreated.WithLabelValues("medical_report")))
}

func TestCreateReport_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReport(ctx, f.doctor, reportRequest("PAT999999"))
	appErr := requireCode(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Patient not found", appErr.Message)

	noProfile := access.Actor{AccountID: uuid.New(), Role: model.RoleDoctor}
	_, err = f.svc.CreateReport(ctx, noProfile, reportRequest("PAT000007"))
	appErr = requireCode(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Doctor profile not found", appErr.Message)

	_, err = f.svc.CreateReport(ctx, f.admin, reportRequest("PAT000007"))
	requireCode(t, err, apperrors.ErrNotFound)

	_, _, _, reports, _ := f.store.Counts()
	assert.Zero(t, reports)
}

func TestCreatePrescription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreatePrescription(ctx, f.doctor, prescriptionRequest("PAT000007"))
	require.NoError(t, err)
	assert.Equal(t, "RX00000001", first.PrescriptionID)
	assert.Equal(t, model.PrescriptionStatusActive, first.Status)
	assert.True(t, first.IsElectronic)
	assert.Equal(t, "2024-03-31", first.ValidUntil.Format("2006-01-02"))
	require.Len(t, first.Medications, 1)
	require.NotNil(t, first.Medications[0].IsGenericAllowed)
	assert.True(t, *first.Medications[0].IsGenericAllowed)
	assert.Zero(t, first.Medications[0].Refills)
	assert.Equal(t, "Smith", first.Doctor.LastName)

	req := prescriptionRequest("PAT000008")
	notElectronic := false
	validUntil := model.NewDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	req.IsElectronic = &notElectronic
	req.ValidUntil = &validUntil
	second, err := f.svc.CreatePrescription(ctx, f.doctor, req)
	require.NoError(t, err)
	assert.Equal(t, "RX00000002", second.PrescriptionID)
	assert.False(t, second.IsElectronic)
	assert.Equal(t, "2024-06-01", second.ValidUntil.Format("2006-01-02"))

	mine, total, err := f.svc.MyPrescriptions(ctx, f.patient7, pagination.New(1, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "RX00000001", mine[0].PrescriptionID)
}

func TestCreatePrescription_LinkedReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.CreateReport(ctx, f.doctor, reportRequest("PAT000007"))
	require.NoError(t, err)

	req := prescriptionRequest("PAT000007")
	req.MedicalReportID = report.ID.String()
	rx, err := f.svc.CreatePrescription(ctx, f.doctor, req)
	require.NoError(t, err)
	require.NotNil(t, rx.MedicalReportID)
	assert.Equal(t, report.ID, *rx.MedicalReportID)

	req = prescriptionRequest("PAT000008")
	req.MedicalReportID = report.ID.String()
	_, err = f.svc.CreatePrescription(ctx, f.doctor, req)
	requireCode(t, err, apperrors.ErrBadRequest)

	req = prescriptionRequest("PAT000007")
	req.MedicalReportID = uuid.NewString()
	_, err = f.svc.CreatePrescription(ctx, f.doctor, req)
	requireCode(t, err, apperrors.ErrNotFound)
}

func TestCreatePrescription_FailureKeepsSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.FailOn["prescriptions.Create"] = errors.New("connection reset")
	_, err := f.svc.CreatePrescription(ctx, f.doctor, prescriptionRequest("PAT000007"))
	requireCode(t, err, apperrors.ErrInternal)

	delete(f.store.FailOn, "prescriptions.Create")
	rx, err := f.svc.CreatePrescription(ctx, f.doctor, prescriptionRequest("PAT000007"))
	require.NoError(t, err)
	assert.Equal(t, "RX00000001", rx.PrescriptionID)
}

func TestGetPrescription_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rx, err := f.svc.CreatePrescription(ctx, f.doctor, prescriptionRequest("PAT000007"))
	require.NoError(t, err)

	got, err := f.svc.GetPrescription(ctx, f.patient7, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, rx.PrescriptionID, got.PrescriptionID)

	_, err = f.svc.GetPrescription(ctx, f.patient8, rx.ID)
	requireCode(t, err, apperrors.ErrForbidden)

	_, err = f.svc.GetPrescription(ctx, f.other, rx.ID)
	requireCode(t, err, apperrors.ErrForbidden)

	_, err = f.svc.GetPrescription(ctx, f.admin, rx.ID)
	require.NoError(t, err)

	_, err = f.svc.GetPrescription(ctx, f.admin, uuid.New())
	appErr := requireCode(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Prescription not found", appErr.Message)
}

func TestMyLists_RequirePatientProfile(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.MyReports(context.Background(), f.doctor, pagination.New(1, 10, 100))
	requireCode(t, err, apperrors.ErrNotFound)
	_, _, err = f.svc.MyPrescriptions(context.Background(), f.doctor, pagination.New(1, 10, 100))
	requireCode(t, err, apperrors.ErrNotFound)
}
