package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/compose"
	"github.com/jwalitptl/hospital-api/internal/testutil"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

func newService(store *testutil.Store) *Service {
	return NewService(store.Patients(), store.Reports(), store.Prescriptions(),
		compose.New(store.Accounts(), store.Doctors(), store.Patients()))
}

func TestList_Pagination(t *testing.T) {
	store := testutil.NewStore()
	svc := newService(store)
	for i := 1; i <= 23; i++ {
		store.SeedPatient("Pat", "Ient", uuid.NewString()+"@x.com", uuid.NewString())
	}

	p := pagination.New(3, 10, 100)
	views, total, err := svc.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	assert.Len(t, views, 3)

	meta := p.Meta(total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestSearch(t *testing.T) {
	store := testutil.NewStore()
	svc := newService(store)
	store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000001")
	store.SeedPatient("John", "Roe", "jroe@y.com", "PAT000002")
	store.SeedPatient("Mary", "Major", "mary@x.com", "PAT000003")
	ctx := context.Background()

	views, err := svc.Search(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "PAT000001", views[0].PatientID)

	views, err = svc.Search(ctx, "OE")
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = svc.Search(ctx, "@x.com")
	require.NoError(t, err)
	assert.Len(t, views, 2)

	for _, v := range views {
		assert.NotNil(t, v.User)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newService(testutil.NewStore())
	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "Search query is required", appErr.Message)
}

func TestGet(t *testing.T) {
	store := testutil.NewStore()
	svc := newService(store)
	_, patient := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000001")

	view, err := svc.Get(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", view.User.FirstName)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Patient not found", appErr.Message)
}

func TestMedicalHistoryAndPrescriptions(t *testing.T) {
	store := testutil.NewStore()
	svc := newService(store)
	ctx := context.Background()
	_, doctor := store.SeedDoctor("John", "Smith", "js@x.com", "Cardiology", "Heart", "L1")
	_, patient := store.SeedPatient("Jane", "Doe", "jane@x.com", "PAT000001")
	_, other := store.SeedPatient("Mary", "Major", "mary@x.com", "PAT000002")
	store.SeedReport(doctor, patient, "older")
	store.SeedReport(doctor, patient, "newer")
	store.SeedReport(doctor, other, "not hers")

	rx := &model.Prescription{
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		PrescriptionID: "RX00000001",
		Medications:    model.Medications{{Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Duration: "7 days"}},
		Status:         model.PrescriptionStatusActive,
	}
	require.NoError(t, store.Prescriptions().Create(ctx, rx))

	reports, total, err := svc.MedicalHistory(ctx, patient.ID, pagination.New(1, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reports, 2)
	assert.Equal(t, "newer", reports[0].Title)
	assert.Equal(t, "Smith", reports[0].Doctor.LastName)

	prescriptions, total, err := svc.Prescriptions(ctx, patient.ID, pagination.New(1, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, prescriptions, 1)
	assert.Equal(t, "RX00000001", prescriptions[0].PrescriptionID)

	_, _, err = svc.MedicalHistory(ctx, uuid.New(), pagination.New(1, 10, 100))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
